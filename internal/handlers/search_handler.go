package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/qlture/engagement/internal/models"
	"github.com/qlture/engagement/internal/services"
)

type SearchHandler struct {
	searchService *services.SearchService
}

func NewSearchHandler(searchService *services.SearchService) *SearchHandler {
	return &SearchHandler{searchService: searchService}
}

// Search handles GET /search?q&type&genres&page&limit&sort.
func (h *SearchHandler) Search(c *fiber.Ctx) error {
	page, err := h.searchService.SearchContent(c.UserContext(), services.SearchInput{
		Q:      c.Query("q"),
		Type:   models.ContentType(c.Query("type")),
		Genres: listQuery(c, "genres"),
		Sort:   models.SearchSort(c.Query("sort")),
		Page:   int64(c.QueryInt("page", 1)),
		Limit:  int64(c.QueryInt("limit", services.DefaultSearchLimit)),
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(page)
}
