package server

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v3"

	patiodesigner "github.com/menta2k/patio-designer"
	"github.com/menta2k/patio-designer/pkg/errors"
	"github.com/menta2k/patio-designer/pkg/pricing"
	"github.com/menta2k/patio-designer/pkg/types"
)

// Form fields shared by /render and /price
const (
	FieldImage      = "image"
	FieldDoorHeight = "door_height"
	FieldDoors      = "doors"
	FieldWidth      = "width"
	FieldDepth      = "depth"
	FieldEnclosure  = "enclosure"
	FieldFrameColor = "frame_color"
	FieldRoofStyle  = "roof_style"
)

func liveness(c fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "alive"})
}

func (s *Server) readiness(c fiber.Ctx) error {
	if s.designer == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "not ready"})
	}
	return c.JSON(fiber.Map{"status": "ready", "version": patiodesigner.GetVersion()})
}

// render draws the uploaded photo and returns the encoded design
func (s *Server) render(c fiber.Ctx) error {
	req, err := parseRequest(c, true)
	if err != nil {
		return err
	}

	file, err := c.FormFile(FieldImage)
	if err != nil {
		return errors.New(errors.ErrCodeInvalidInput, "%s file is required", FieldImage)
	}
	f, err := file.Open()
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "failed to open upload")
	}
	defer f.Close()
	req.Image = f

	logger := requestLogger(c, s.logger)
	logger.Debug("render", "file", file.Filename, "size", file.Size, "enclosure", req.Enclosure, "doors", req.DoorCount)

	ctx := patiodesigner.WithLogger(c.Context(), logger)
	result, err := s.designer.Render(ctx, req)
	if err != nil {
		return err
	}

	c.Set(fiber.HeaderContentType, result.Format.ContentType())
	c.Set(HeaderPriceEstimate, result.PriceText)
	return c.Send(result.Image)
}

// priceResponse is the JSON body of /price
type priceResponse struct {
	pricing.Estimate
	Text string `json:"text"`
}

func (s *Server) price(c fiber.Ctx) error {
	req, err := parseRequest(c, false)
	if err != nil {
		return err
	}

	ctx := patiodesigner.WithLogger(c.Context(), requestLogger(c, s.logger))
	est, text, err := s.designer.Estimate(ctx, req)
	if err != nil {
		return err
	}

	c.Set(HeaderPriceEstimate, text)
	return c.JSON(priceResponse{Estimate: est, Text: text})
}

// parseRequest reads the form fields. Options are parsed leniently so the
// designer's option policy decides what happens to unknown values.
func parseRequest(c fiber.Ctx, drawing bool) (types.DesignRequest, error) {
	var req types.DesignRequest
	var err error

	if req.WidthFt, err = formFloat(c, FieldWidth); err != nil {
		return req, err
	}
	if req.DepthFt, err = formFloat(c, FieldDepth); err != nil {
		return req, err
	}
	req.Enclosure = types.EnclosureTypeOf(c.FormValue(FieldEnclosure))

	if !drawing {
		return req, nil
	}

	if req.DoorPixelHeight, err = formFloat(c, FieldDoorHeight); err != nil {
		return req, err
	}
	if v := strings.TrimSpace(c.FormValue(FieldDoors)); v != "" {
		if req.DoorCount, err = strconv.Atoi(v); err != nil {
			return req, errors.New(errors.ErrCodeInvalidInput, "%s must be an integer, got %q", FieldDoors, v)
		}
	}
	req.FrameColor = types.FrameColorOf(c.FormValue(FieldFrameColor))
	req.RoofStyle = types.RoofStyleOf(c.FormValue(FieldRoofStyle))

	return req, nil
}

func formFloat(c fiber.Ctx, field string) (float64, error) {
	v := strings.TrimSpace(c.FormValue(field))
	if v == "" {
		return 0, errors.New(errors.ErrCodeInvalidInput, "%s is required", field)
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, errors.New(errors.ErrCodeInvalidInput, "%s must be a number, got %q", field, v)
	}
	return f, nil
}
