// Package controller provides the value holders that back payment form
// elements. Each controller stores the raw user input, derives a State from a
// kind-specific rule, and notifies observers synchronously on every change:
//
//	ctrl := controller.NewTextField(controller.EmailConfig{})
//	ctrl.SetRawValue("a@")      // StateEditing, Complete() == false
//	ctrl.SetRawValue("a@b.com") // StateValid, Complete() == true
//
// Completion is derived, not stored: a controller is complete when it is valid
// and, if required, non-empty. Controllers never return errors; invalid input
// is reported through State and FieldError.
package controller
