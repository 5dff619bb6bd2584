package routes

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/travigo/rtmonitor/pkg/efa"
)

func queryInt(c *fiber.Ctx, key string) (int, error) {
	value := c.Query(key)
	if value == "" {
		return 0, nil
	}

	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("Parameter %s should be an integer", key)
	}

	return n, nil
}

func queryFloat(c *fiber.Ctx, key string) (float64, error) {
	n, err := strconv.ParseFloat(c.Query(key), 64)
	if err != nil {
		return 0, fmt.Errorf("Parameter %s should be a number", key)
	}

	return n, nil
}

func queryFlag(c *fiber.Ctx, key string) (bool, error) {
	value := c.Query(key)
	if value == "" {
		return false, nil
	}

	flag, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("Parameter %s should be a boolean", key)
	}

	return flag, nil
}

// queryStrings collects a repeated parameter (?line=U1&line=U2)
func queryStrings(c *fiber.Ctx, key string) []string {
	var values []string

	for _, value := range c.Context().QueryArgs().PeekMulti(key) {
		if len(value) > 0 {
			values = append(values, string(value))
		}
	}

	return values
}

func queryInts(c *fiber.Ctx, key string) ([]int, error) {
	var values []int

	for _, value := range queryStrings(c, key) {
		n, err := strconv.Atoi(value)
		if err != nil {
			return nil, fmt.Errorf("Parameter %s should be a list of integers", key)
		}
		values = append(values, n)
	}

	return values, nil
}

func sendBadRequest(c *fiber.Ctx, err error) error {
	c.Status(fiber.StatusBadRequest)
	return c.JSON(fiber.Map{
		"error": err.Error(),
	})
}

// sendError answers with the status of an upstream APIError, or 500
func sendError(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError

	var apiError *efa.APIError
	if errors.As(err, &apiError) && apiError.Status >= fiber.StatusBadRequest {
		status = apiError.Status
	}

	c.Status(status)
	return c.JSON(fiber.Map{
		"error": err.Error(),
	})
}
