// Cinerec - Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerec

// Package validation provides struct validation using go-playground/validator v10.
//
// A single validator instance is built once and shared. Besides the built-in
// tags it registers:
//
//	genre    a catalog genre name: a letter, then letters, spaces or hyphens (max 64)
//	movieid  a catalog identifier: 1-32 of [A-Za-z0-9_-]
//
// # Usage
//
//	type RecommendationsRequest struct {
//	    UserID   int    `validate:"required,min=1"`
//	    Category string `validate:"omitempty,genre"`
//	    Limit    int    `validate:"min=0,max=100"`
//	}
//
//	if verr := validation.ValidateStruct(&req); verr != nil {
//	    apiErr := verr.ToAPIError()
//	    respondError(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, nil)
//	    return
//	}
//
// Failures are translated to messages such as "Limit must be at most 100".
// ToAPIError returns the VALIDATION_ERROR code used across the API, with the
// failing field and tag in Details.
package validation
