package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	studioUC "github.com/khoahotran/career-studio/internal/application/usecase/studio"
	"github.com/khoahotran/career-studio/internal/domain/portfolio"
	"github.com/khoahotran/career-studio/pkg/apperror"
	"github.com/khoahotran/career-studio/pkg/logger"
)

type StudioHandler struct {
	sessionUseCase  *studioUC.SessionUseCase
	entryUseCase    *studioUC.EntryUseCase
	settingsUseCase *studioUC.SettingsUseCase
	reviewUseCase   *studioUC.ReviewDraftUseCase
	saveUseCase     *studioUC.SaveDraftUseCase
	sections        *portfolio.Sections
	logger          logger.Logger
}

func NewStudioHandler(
	sessionUC *studioUC.SessionUseCase,
	entryUC *studioUC.EntryUseCase,
	settingsUC *studioUC.SettingsUseCase,
	reviewUC *studioUC.ReviewDraftUseCase,
	saveUC *studioUC.SaveDraftUseCase,
	sections *portfolio.Sections,
	log logger.Logger,
) *StudioHandler {
	return &StudioHandler{
		sessionUseCase:  sessionUC,
		entryUseCase:    entryUC,
		settingsUseCase: settingsUC,
		reviewUseCase:   reviewUC,
		saveUseCase:     saveUC,
		sections:        sections,
		logger:          log,
	}
}

func (h *StudioHandler) ListSchemas(c *gin.Context) {
	c.JSON(http.StatusOK, h.sessionUseCase.ExecuteListSchemas())
}

func (h *StudioHandler) StartSession(c *gin.Context) {
	ownerID, ok := GetOwnerIDFromGinContext(c)
	if !ok {
		c.Error(apperror.NewPermissionDenied("ownerID not found in context"))
		return
	}

	output, err := h.sessionUseCase.ExecuteStart(c.Request.Context(), studioUC.StartSessionInput{OwnerID: ownerID})
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, ToSessionDTO(output.Session, h.sections))
}

func (h *StudioHandler) GetSession(c *gin.Context) {
	ownerID, ok := GetOwnerIDFromGinContext(c)
	if !ok {
		c.Error(apperror.NewPermissionDenied("ownerID not found in context"))
		return
	}

	output, err := h.sessionUseCase.ExecuteGet(c.Request.Context(), studioUC.GetSessionInput{OwnerID: ownerID})
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, ToSessionDTO(output.Session, h.sections))
}

func (h *StudioHandler) DiscardSession(c *gin.Context) {
	ownerID, ok := GetOwnerIDFromGinContext(c)
	if !ok {
		c.Error(apperror.NewPermissionDenied("ownerID not found in context"))
		return
	}

	if err := h.sessionUseCase.ExecuteDiscard(c.Request.Context(), studioUC.DiscardSessionInput{OwnerID: ownerID}); err != nil {
		c.Error(err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *StudioHandler) Review(c *gin.Context) {
	ownerID, ok := GetOwnerIDFromGinContext(c)
	if !ok {
		c.Error(apperror.NewPermissionDenied("ownerID not found in context"))
		return
	}

	output, err := h.reviewUseCase.Execute(c.Request.Context(), studioUC.ReviewDraftInput{OwnerID: ownerID})
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, output)
}

func (h *StudioHandler) Save(c *gin.Context) {
	ownerID, ok := GetOwnerIDFromGinContext(c)
	if !ok {
		c.Error(apperror.NewPermissionDenied("ownerID not found in context"))
		return
	}

	output, err := h.saveUseCase.Execute(c.Request.Context(), studioUC.SaveDraftInput{OwnerID: ownerID})
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"portfolio": output.Portfolio})
}

func (h *StudioHandler) UpdatePersonal(c *gin.Context) {
	ownerID, ok := GetOwnerIDFromGinContext(c)
	if !ok {
		c.Error(apperror.NewPermissionDenied("ownerID not found in context"))
		return
	}

	var req FieldUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.NewInvalidInput("invalid JSON body for personal info update", err))
		return
	}

	output, err := h.settingsUseCase.ExecuteUpdatePersonalField(c.Request.Context(), studioUC.UpdatePersonalFieldInput{
		OwnerID: ownerID,
		Field:   req.Field,
		Value:   req.Value,
	})
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, output)
}

func (h *StudioHandler) SelectTheme(c *gin.Context) {
	ownerID, ok := GetOwnerIDFromGinContext(c)
	if !ok {
		c.Error(apperror.NewPermissionDenied("ownerID not found in context"))
		return
	}

	var req SelectThemeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.NewInvalidInput("invalid JSON body for theme", err))
		return
	}

	output, err := h.settingsUseCase.ExecuteSelectTheme(c.Request.Context(), studioUC.SelectThemeInput{
		OwnerID: ownerID,
		Theme:   req.Theme,
	})
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, output)
}

func (h *StudioHandler) UpdatePublishing(c *gin.Context) {
	ownerID, ok := GetOwnerIDFromGinContext(c)
	if !ok {
		c.Error(apperror.NewPermissionDenied("ownerID not found in context"))
		return
	}

	var req UpdatePublishingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.NewInvalidInput("invalid JSON body for publishing settings", err))
		return
	}

	output, err := h.settingsUseCase.ExecuteUpdatePublishing(c.Request.Context(), studioUC.UpdatePublishingInput{
		OwnerID:  ownerID,
		Slug:     req.Slug,
		IsPublic: req.IsPublic,
	})
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, output)
}

func (h *StudioHandler) GetSection(c *gin.Context) {
	ownerID, ok := GetOwnerIDFromGinContext(c)
	if !ok {
		c.Error(apperror.NewPermissionDenied("ownerID not found in context"))
		return
	}

	output, err := h.entryUseCase.ExecuteGetSection(c.Request.Context(), studioUC.GetSectionInput{
		OwnerID: ownerID,
		Section: c.Param("section"),
	})
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, output)
}

func (h *StudioHandler) AddEntry(c *gin.Context) {
	ownerID, ok := GetOwnerIDFromGinContext(c)
	if !ok {
		c.Error(apperror.NewPermissionDenied("ownerID not found in context"))
		return
	}

	output, err := h.entryUseCase.ExecuteAdd(c.Request.Context(), studioUC.AddEntryInput{
		OwnerID: ownerID,
		Section: c.Param("section"),
	})
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, output)
}

func (h *StudioHandler) UpdateEntry(c *gin.Context) {
	ownerID, ok := GetOwnerIDFromGinContext(c)
	if !ok {
		c.Error(apperror.NewPermissionDenied("ownerID not found in context"))
		return
	}

	var req FieldUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.NewInvalidInput("invalid JSON body for entry update", err))
		return
	}

	output, err := h.entryUseCase.ExecuteUpdateField(c.Request.Context(), studioUC.UpdateEntryFieldInput{
		OwnerID: ownerID,
		Section: c.Param("section"),
		EntryID: c.Param("id"),
		Field:   req.Field,
		Value:   req.Value,
	})
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, output)
}

func (h *StudioHandler) RemoveEntry(c *gin.Context) {
	ownerID, ok := GetOwnerIDFromGinContext(c)
	if !ok {
		c.Error(apperror.NewPermissionDenied("ownerID not found in context"))
		return
	}

	output, err := h.entryUseCase.ExecuteRemove(c.Request.Context(), studioUC.EntryRefInput{
		OwnerID: ownerID,
		Section: c.Param("section"),
		EntryID: c.Param("id"),
	})
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, output)
}

func (h *StudioHandler) ToggleEntry(c *gin.Context) {
	ownerID, ok := GetOwnerIDFromGinContext(c)
	if !ok {
		c.Error(apperror.NewPermissionDenied("ownerID not found in context"))
		return
	}

	output, err := h.entryUseCase.ExecuteToggle(c.Request.Context(), studioUC.EntryRefInput{
		OwnerID: ownerID,
		Section: c.Param("section"),
		EntryID: c.Param("id"),
	})
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, output)
}
