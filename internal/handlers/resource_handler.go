package handlers

import (
	"bytes"
	"math"
	"strconv"

	"resourcesvc/internal/models"
	"resourcesvc/internal/services"
	"resourcesvc/internal/validation"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

const defaultListLimit = 50

// Response messages.
const (
	MsgInvalidResourceID = "Invalid resource ID"
	MsgResourceNotFound  = "Resource not found"
	MsgResourceDeleted   = "Resource deleted successfully"
	MsgInvalidJSON       = "Invalid JSON payload"
)

// ResourceHandler handles HTTP requests for resources.
type ResourceHandler struct {
	service *services.ResourceService
	log     *zap.Logger
}

// NewResourceHandler creates a new ResourceHandler.
func NewResourceHandler(service *services.ResourceService, log *zap.Logger) *ResourceHandler {
	return &ResourceHandler{
		service: service,
		log:     log,
	}
}

// RegisterRoutes registers the resource routes with the Fiber router.
func (h *ResourceHandler) RegisterRoutes(router fiber.Router) {
	resourceRoutes := router.Group("/resources")
	resourceRoutes.Post("/", h.HandleCreateResource)
	resourceRoutes.Get("/", h.HandleListResources)
	resourceRoutes.Get("/:id", h.HandleGetResource)
	resourceRoutes.Put("/:id", h.HandleUpdateResource)
	resourceRoutes.Delete("/:id", h.HandleDeleteResource)
}

func fail(c *fiber.Ctx, status int, msg string) error {
	return c.Status(status).JSON(fiber.Map{
		"success": false,
		"error":   msg,
	})
}

func failValidation(c *fiber.Ctx, verr *validation.ValidationError) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"success": false,
		"errors":  verr.Errors,
	})
}

// parseID rejects anything that is not a base-10 integer.
func parseID(c *fiber.Ctx) (int64, bool) {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	return id, err == nil
}

// parsePayload decodes the body as a JSON object. An empty body is an empty
// object.
func parsePayload(c *fiber.Ctx) (map[string]interface{}, bool) {
	payload := map[string]interface{}{}
	body := c.Body()
	if len(bytes.TrimSpace(body)) == 0 {
		return payload, true
	}
	if err := c.App().Config().JSONDecoder(body, &payload); err != nil {
		return nil, false
	}
	if payload == nil { // literal null
		payload = map[string]interface{}{}
	}
	return payload, true
}

// HandleCreateResource validates the payload and stores a new resource.
func (h *ResourceHandler) HandleCreateResource(c *fiber.Ctx) error {
	payload, ok := parsePayload(c)
	if !ok {
		return fail(c, fiber.StatusBadRequest, MsgInvalidJSON)
	}
	if verr := validation.ValidateCreate(payload); verr != nil {
		return failValidation(c, verr)
	}

	resource, err := h.service.CreateResource(c.UserContext(), validation.CreateInput(payload))
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"data":    resource,
	})
}

// HandleListResources lists resources filtered by the query string.
func (h *ResourceHandler) HandleListResources(c *fiber.Ctx) error {
	filter, msg := parseFilter(c)
	if msg != "" {
		return fail(c, fiber.StatusBadRequest, msg)
	}

	resources, err := h.service.ListResources(c.UserContext(), filter)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    resources,
		"count":   len(resources),
		"filters": filter,
	})
}

// parseFilter reads the list query. It returns a client error message when a
// numeric parameter is malformed.
func parseFilter(c *fiber.Ctx) (models.ResourceFilter, string) {
	var filter models.ResourceFilter
	if v := c.Query("name"); v != "" {
		filter.Name = &v
	}
	if v := c.Query("category"); v != "" {
		filter.Category = &v
	}

	var ok bool
	if filter.MinPrice, ok = queryFloat(c, "min_price"); !ok {
		return filter, "Invalid min_price"
	}
	if filter.MaxPrice, ok = queryFloat(c, "max_price"); !ok {
		return filter, "Invalid max_price"
	}

	limit, offset := defaultListLimit, 0
	if filter.Limit, ok = queryCount(c, "limit", &limit); !ok {
		return filter, "Invalid limit"
	}
	if filter.Offset, ok = queryCount(c, "offset", &offset); !ok {
		return filter, "Invalid offset"
	}
	return filter, ""
}

func queryFloat(c *fiber.Ctx, key string) (*float64, bool) {
	raw := c.Query(key)
	if raw == "" {
		return nil, true
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return nil, false
	}
	return &f, true
}

// queryCount parses an unsigned base-10 integer, falling back to def when
// absent. Signs are rejected.
func queryCount(c *fiber.Ctx, key string, def *int) (*int, bool) {
	raw := c.Query(key)
	if raw == "" {
		return def, true
	}
	u, err := strconv.ParseUint(raw, 10, 31)
	if err != nil {
		return nil, false
	}
	n := int(u)
	return &n, true
}

// HandleGetResource retrieves a single resource by its ID.
func (h *ResourceHandler) HandleGetResource(c *fiber.Ctx) error {
	id, ok := parseID(c)
	if !ok {
		return fail(c, fiber.StatusBadRequest, MsgInvalidResourceID)
	}

	resource, err := h.service.GetResource(c.UserContext(), id)
	if err != nil {
		return err
	}
	if resource == nil {
		return fail(c, fiber.StatusNotFound, MsgResourceNotFound)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    resource,
	})
}

// HandleUpdateResource applies a partial update to an existing resource.
func (h *ResourceHandler) HandleUpdateResource(c *fiber.Ctx) error {
	id, ok := parseID(c)
	if !ok {
		return fail(c, fiber.StatusBadRequest, MsgInvalidResourceID)
	}
	payload, ok := parsePayload(c)
	if !ok {
		return fail(c, fiber.StatusBadRequest, MsgInvalidJSON)
	}
	if verr := validation.ValidateUpdate(payload); verr != nil {
		return failValidation(c, verr)
	}

	ctx := c.UserContext()
	existing, err := h.service.GetResource(ctx, id)
	if err != nil {
		return err
	}
	if existing == nil {
		return fail(c, fiber.StatusNotFound, MsgResourceNotFound)
	}

	resource, err := h.service.UpdateResource(ctx, id, validation.UpdateInput(payload))
	if err != nil {
		return err
	}
	if resource == nil {
		// Deleted between the lookup and the update.
		return fail(c, fiber.StatusNotFound, MsgResourceNotFound)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    resource,
	})
}

// HandleDeleteResource deletes an existing resource and returns it.
func (h *ResourceHandler) HandleDeleteResource(c *fiber.Ctx) error {
	id, ok := parseID(c)
	if !ok {
		return fail(c, fiber.StatusBadRequest, MsgInvalidResourceID)
	}

	ctx := c.UserContext()
	existing, err := h.service.GetResource(ctx, id)
	if err != nil {
		return err
	}
	if existing == nil {
		return fail(c, fiber.StatusNotFound, MsgResourceNotFound)
	}

	if _, err := h.service.DeleteResource(ctx, id); err != nil {
		return err
	}

	h.log.Debug("resource deleted", zap.Int64("id", id))
	return c.JSON(fiber.Map{
		"success": true,
		"message": MsgResourceDeleted,
		"data":    existing,
	})
}
