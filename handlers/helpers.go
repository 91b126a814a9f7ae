package handlers

import (
	"errors"
	"fmt"
	"strings"

	"github.com/anjiri1684/parkspace/apperror"
	"github.com/anjiri1684/parkspace/middleware"
	"github.com/anjiri1684/parkspace/services"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

var validate = validator.New()

// parseBody decodes the JSON body into req and runs its validate tags.
func parseBody(c *fiber.Ctx, req interface{}) error {
	if err := c.BodyParser(req); err != nil {
		return apperror.BadRequest(apperror.CodeBadBody, "cannot parse JSON")
	}
	if err := validate.Struct(req); err != nil {
		return validationError(err)
	}
	return nil
}

func validationError(err error) error {
	var fieldErrors validator.ValidationErrors
	if !errors.As(err, &fieldErrors) {
		return apperror.BadRequest(apperror.CodeValidation, err.Error())
	}
	messages := make([]string, 0, len(fieldErrors))
	for _, fe := range fieldErrors {
		if fe.Param() != "" {
			messages = append(messages, fmt.Sprintf("%s failed %s=%s", fe.Field(), fe.Tag(), fe.Param()))
		} else {
			messages = append(messages, fmt.Sprintf("%s failed %s", fe.Field(), fe.Tag()))
		}
	}
	return apperror.BadRequest(apperror.CodeValidation, strings.Join(messages, "; "))
}

func currentActor(c *fiber.Ctx) (services.Actor, error) {
	session, err := middleware.CurrentUser(c)
	if err != nil {
		return services.Actor{}, err
	}
	return services.Actor{UserID: session.UserID, Role: session.Role}, nil
}

// uuidParam reads a UUID path parameter. A malformed id cannot match any
// row, so it is reported with the resource's not-found code.
func uuidParam(c *fiber.Ctx, name, notFoundCode, resource string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params(name))
	if err != nil {
		return uuid.Nil, apperror.NotFound(notFoundCode, resource+" not found")
	}
	return id, nil
}

func pageFromQuery(c *fiber.Ctx) services.Page {
	return services.NewPage(c.QueryInt("page", 1), c.QueryInt("page_size", services.DefaultPageSize))
}
