// Package service contains the application services that sit between the HTTP
// surface and the store. Services own validation, ownership checks, and
// cross-entity orchestration.
package service

import (
	"github.com/gallerieapp/gallerie-server/internal/validation"
)

// validate is the shared request validator for all services.
var validate = validation.New()
