package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"adoptions/internal/service"
	"adoptions/internal/validator"
)

// ReviewController is the review workflow exposed over HTTP.
type ReviewController interface {
	Current() (*service.Draft, error)
	Present(itemID string) (*service.Draft, error)
	UpdateField(path string, value any) (*service.Draft, error)
	AddText() (*service.Draft, error)
	RemoveText(textID string) (*service.Draft, error)
	MoveText(textID string, index int) (*service.Draft, error)
	SetPrincipal(textID string) (*service.Draft, error)
	AddAuthor(textID string) (*service.Draft, error)
	RemoveAuthor(textID string, index int) (*service.Draft, error)
	Validate(ctx context.Context) (validator.Report, error)
	Confirm(ctx context.Context) (*service.Outcome, error)
	Discard(ctx context.Context) (*service.Outcome, error)
}

var _ ReviewController = (*service.ReviewWorkflow)(nil)

// ReviewHandler handles the one-at-a-time review endpoints.
type ReviewHandler struct {
	review ReviewController
}

// NewReviewHandler creates a new ReviewHandler.
func NewReviewHandler(review ReviewController) *ReviewHandler {
	return &ReviewHandler{review: review}
}

func (h *ReviewHandler) respondDraft(c *gin.Context, draft *service.Draft, err error) {
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, draft)
}

// Current handles GET /api/v1/review/current
// @Summary Current draft
// @Description Return the draft under review, presenting the oldest reviewing item when none is active
// @Tags review
// @Produce json
// @Success 200 {object} Response{data=service.Draft} "Active draft"
// @Failure 404 {object} ErrorResponseBody "Nothing to review"
// @Router /review/current [get]
func (h *ReviewHandler) Current(c *gin.Context) {
	draft, err := h.review.Current()
	h.respondDraft(c, draft, err)
}

// Present handles POST /api/v1/review/present/:id
// @Summary Review a specific item
// @Tags review
// @Produce json
// @Param id path string true "Queue item ID"
// @Success 200 {object} Response{data=service.Draft} "Active draft"
// @Failure 404 {object} ErrorResponseBody "Queue item not found"
// @Failure 409 {object} ErrorResponseBody "Item is not awaiting review"
// @Router /review/present/{id} [post]
func (h *ReviewHandler) Present(c *gin.Context) {
	draft, err := h.review.Present(c.Param("id"))
	h.respondDraft(c, draft, err)
}

// UpdateField handles PATCH /api/v1/review/fields
// @Summary Edit a draft field
// @Tags review
// @Accept json
// @Produce json
// @Param request body UpdateFieldRequest true "Field path and value"
// @Success 200 {object} Response{data=service.Draft} "Updated draft"
// @Failure 400 {object} ErrorResponseBody "Invalid path or value"
// @Router /review/fields [patch]
func (h *ReviewHandler) UpdateField(c *gin.Context) {
	var req UpdateFieldRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}
	draft, err := h.review.UpdateField(req.Path, req.Value)
	h.respondDraft(c, draft, err)
}

// AddText handles POST /api/v1/review/texts
// @Summary Add a text entry
// @Tags review
// @Produce json
// @Success 200 {object} Response{data=service.Draft} "Updated draft"
// @Router /review/texts [post]
func (h *ReviewHandler) AddText(c *gin.Context) {
	draft, err := h.review.AddText()
	h.respondDraft(c, draft, err)
}

// RemoveText handles DELETE /api/v1/review/texts/:textId
// @Summary Remove a text entry
// @Tags review
// @Produce json
// @Param textId path string true "Text entry ID"
// @Success 200 {object} Response{data=service.Draft} "Updated draft"
// @Failure 404 {object} ErrorResponseBody "Text entry not found"
// @Router /review/texts/{textId} [delete]
func (h *ReviewHandler) RemoveText(c *gin.Context) {
	draft, err := h.review.RemoveText(c.Param("textId"))
	h.respondDraft(c, draft, err)
}

// MoveText handles PUT /api/v1/review/texts/:textId/position
// @Summary Reorder a text entry
// @Tags review
// @Accept json
// @Produce json
// @Param textId path string true "Text entry ID"
// @Param request body MoveTextRequest true "Target position"
// @Success 200 {object} Response{data=service.Draft} "Updated draft"
// @Router /review/texts/{textId}/position [put]
func (h *ReviewHandler) MoveText(c *gin.Context) {
	var req MoveTextRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}
	draft, err := h.review.MoveText(c.Param("textId"), *req.Index)
	h.respondDraft(c, draft, err)
}

// SetPrincipal handles PUT /api/v1/review/texts/:textId/principal
// @Summary Mark the principal text
// @Tags review
// @Produce json
// @Param textId path string true "Text entry ID"
// @Success 200 {object} Response{data=service.Draft} "Updated draft"
// @Router /review/texts/{textId}/principal [put]
func (h *ReviewHandler) SetPrincipal(c *gin.Context) {
	draft, err := h.review.SetPrincipal(c.Param("textId"))
	h.respondDraft(c, draft, err)
}

// AddAuthor handles POST /api/v1/review/texts/:textId/authors
// @Summary Add an author slot
// @Tags review
// @Produce json
// @Param textId path string true "Text entry ID"
// @Success 200 {object} Response{data=service.Draft} "Updated draft"
// @Router /review/texts/{textId}/authors [post]
func (h *ReviewHandler) AddAuthor(c *gin.Context) {
	draft, err := h.review.AddAuthor(c.Param("textId"))
	h.respondDraft(c, draft, err)
}

// RemoveAuthor handles DELETE /api/v1/review/texts/:textId/authors/:index
// @Summary Remove an author slot
// @Tags review
// @Produce json
// @Param textId path string true "Text entry ID"
// @Param index path int true "Author index"
// @Success 200 {object} Response{data=service.Draft} "Updated draft"
// @Router /review/texts/{textId}/authors/{index} [delete]
func (h *ReviewHandler) RemoveAuthor(c *gin.Context) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_INDEX", "author index must be a number")
		return
	}
	draft, err := h.review.RemoveAuthor(c.Param("textId"), index)
	h.respondDraft(c, draft, err)
}

// Validation handles GET /api/v1/review/validation
// @Summary Validate the draft
// @Description Run required-field and format checks without saving
// @Tags review
// @Produce json
// @Success 200 {object} Response{data=validator.Report} "Validation report"
// @Router /review/validation [get]
func (h *ReviewHandler) Validation(c *gin.Context) {
	report, err := h.review.Validate(c.Request.Context())
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, report)
}

// Confirm handles POST /api/v1/review/confirm
// @Summary Confirm and save the draft
// @Description Save the draft and move to the next reviewing item or the dashboard
// @Tags review
// @Produce json
// @Success 200 {object} Response{data=service.Outcome} "Saved record and next view"
// @Failure 422 {object} ErrorResponseBody "Required fields missing"
// @Failure 500 {object} ErrorResponseBody "Saving failed"
// @Router /review/confirm [post]
func (h *ReviewHandler) Confirm(c *gin.Context) {
	out, err := h.review.Confirm(c.Request.Context())
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, out)
}

// Discard handles POST /api/v1/review/discard
// @Summary Discard the draft
// @Tags review
// @Produce json
// @Success 200 {object} Response{data=service.Outcome} "Next view"
// @Router /review/discard [post]
func (h *ReviewHandler) Discard(c *gin.Context) {
	out, err := h.review.Discard(c.Request.Context())
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, out)
}
