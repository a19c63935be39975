package api

import (
	"errors"
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// OrgID resolves the tenant for a request. Every contact, template and
// workflow is scoped to one organization.
func OrgID(c *gin.Context) string {
	if v := c.GetHeader("X-Org-ID"); v != "" {
		return v
	}
	return "default"
}

// BindError flattens a gin binding failure to a single readable message.
func BindError(err error) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		if fe.Tag() == "required" {
			return fmt.Sprintf("%s is required", fe.Field())
		}
		return fmt.Sprintf("%s failed %s validation", fe.Field(), fe.Tag())
	}
	return err.Error()
}
