package handlers

import (
	"errors"
	"strconv"

	"github.com/rohald89/Hungie/domain"
	"github.com/rohald89/Hungie/internal/api/presenters"
	"github.com/rohald89/Hungie/pkg/scan"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

type (
	ScanHandler interface {
		CreateScan(c *fiber.Ctx) error
		GetScanDetail(c *fiber.Ctx) error
		GetScans(c *fiber.Ctx) error
		FridgeScan(c *fiber.Ctx) error
		GenerateRecipes(c *fiber.Ctx) error
	}

	scanHandler struct {
		scanService scan.ScanService
		validator   *validator.Validate
	}
)

func NewScanHandler(scanService scan.ScanService, validator *validator.Validate) ScanHandler {
	return &scanHandler{
		scanService: scanService,
		validator:   validator,
	}
}

// CreateScan analyzes the uploaded photos and returns the detected inventory
// without generating recipes.
func (h *scanHandler) CreateScan(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	req, err := parseScanRequest(c)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedInvalidImage, err)
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedInvalidImage, err)
	}

	res, err := h.scanService.CreateScan(c.Context(), *req, userID)
	if err != nil {
		return scanErrorResponse(c, err, domain.MessageFailedCreateScan)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusCreated, domain.MessageSuccessCreateScan)
}

func (h *scanHandler) GetScanDetail(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	scanID := c.Params("id")

	res, err := h.scanService.GetScanDetail(c.Context(), scanID, userID)
	if err != nil {
		if errors.Is(err, domain.ErrScanNotFound) {
			return presenters.ErrorResponse(c, fiber.StatusNotFound, domain.MessageFailedGetScan, err)
		}
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedGetScan, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetScan)
}

func (h *scanHandler) GetScans(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	page, err := strconv.Atoi(c.Query("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}

	limit, err := strconv.Atoi(c.Query("limit", "20"))
	if err != nil || limit < 1 {
		limit = 20
	}

	scans, count, err := h.scanService.GetScans(c.Context(), userID, page, limit)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedGetScans, err)
	}

	return presenters.SuccessResponse(c, fiber.Map{
		"scans": scans,
		"pagination": fiber.Map{
			"page":        page,
			"limit":       limit,
			"total":       count,
			"total_pages": (count + int64(limit) - 1) / int64(limit),
		},
	}, fiber.StatusOK, domain.MessageSuccessGetScans)
}

// FridgeScan runs the full pipeline: analyze photos, then generate recipes
// from whatever was detected.
func (h *scanHandler) FridgeScan(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	req, err := parseScanRequest(c)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedInvalidImage, err)
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedInvalidImage, err)
	}

	res, err := h.scanService.AnalyzeAndGenerate(c.Context(), *req, userID)
	if err != nil {
		return scanErrorResponse(c, err, domain.MessageFailedFridgeScan)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusCreated, domain.MessageSuccessFridgeScan)
}

func (h *scanHandler) GenerateRecipes(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	req := new(domain.GenerateRecipesRequest)

	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedGenerateRecipes, err)
	}

	res, err := h.scanService.GenerateRecipes(c.Context(), *req, userID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrEmptyIngredients):
			return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedGenerateRecipes, err)
		case errors.Is(err, domain.ErrScanNotFound):
			return presenters.ErrorResponse(c, fiber.StatusNotFound, domain.MessageFailedGenerateRecipes, err)
		case errors.Is(err, domain.ErrRecipeGenerationFailed):
			return presenters.ErrorResponse(c, fiber.StatusInternalServerError, domain.MessageFailedGenerateRecipes, err)
		}
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedGenerateRecipes, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusCreated, domain.MessageSuccessGenerateRecipes)
}

func parseScanRequest(c *fiber.Ctx) (*domain.CreateScanRequest, error) {
	form, err := c.MultipartForm()
	if err != nil {
		return nil, err
	}

	return &domain.CreateScanRequest{Images: form.File["images"]}, nil
}

func scanErrorResponse(c *fiber.Ctx, err error, message string) error {
	// Generation failed after the scan was saved; hand back the scan ID so
	// the client can retry generation without re-uploading.
	var genErr *domain.GenerationFailedError
	if errors.As(err, &genErr) {
		return c.Status(fiber.StatusInternalServerError).JSON(presenters.Response{
			Success: false,
			Message: message,
			Data:    fiber.Map{"scan_id": genErr.ScanID},
			Error:   genErr.Error(),
		})
	}

	switch {
	case errors.Is(err, domain.ErrNoIngredientsDetected):
		// Not a failure from the user's point of view, the photos just had
		// nothing usable in them.
		return presenters.SuccessResponse(c, fiber.Map{"ingredients_found": false}, fiber.StatusOK, domain.MessageNoIngredientsDetected)
	case errors.Is(err, domain.ErrInvalidImageCount),
		errors.Is(err, domain.ErrInvalidImagePayload),
		errors.Is(err, domain.ErrImageTooLarge),
		errors.Is(err, domain.ErrInvalidImageType):
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedInvalidImage, err)
	case errors.Is(err, domain.ErrAnalysisFailed),
		errors.Is(err, domain.ErrRecipeGenerationFailed):
		return presenters.ErrorResponse(c, fiber.StatusInternalServerError, message, err)
	}
	return presenters.ErrorResponse(c, fiber.StatusBadRequest, message, err)
}
