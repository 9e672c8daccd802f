package utils

import (
	"os"
	"strconv"

	"github.com/gin-gonic/gin"
)

// GetEnvVariable reads an environment variable with a fallback.
func GetEnvVariable(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// ParsePagination reads page/size query params with sane bounds.
// page starts at 0 to match the public API contract.
func ParsePagination(c *gin.Context) (page, size int) {
	page = 0
	size = 20

	if pageStr := c.Query("page"); pageStr != "" {
		if p, err := strconv.Atoi(pageStr); err == nil && p >= 0 {
			page = p
		}
	}

	if sizeStr := c.Query("size"); sizeStr != "" {
		if s, err := strconv.Atoi(sizeStr); err == nil && s > 0 && s <= 100 {
			size = s
		}
	}

	return page, size
}
