package v1

import (
	"net/http"

	"go-profile-backend/internal/delivery/http/response"
	"go-profile-backend/internal/domain"
	"go-profile-backend/pkg/apperror"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ProfileHandler struct {
	profileUC domain.ProfileUsecase
}

func NewProfileHandler(r *gin.RouterGroup, profileUC domain.ProfileUsecase, cvSyncLimit gin.HandlerFunc) {
	handler := &ProfileHandler{profileUC: profileUC}

	profiles := r.Group("/profiles")
	{
		profiles.GET("/:id", handler.GetProfile)
		profiles.PUT("/:id", handler.EditProfile)
		profiles.POST("/:id/cv-sync", cvSyncLimit, handler.SyncFromCV)
		profiles.POST("/:id/recommend-jobs", handler.RecommendJobs)
		profiles.PUT("/:id/cv", handler.UploadCV)
		profiles.DELETE("/:id/cv", handler.DeleteCV)
	}
}

// GetProfile godoc
// @Summary      Get profile
// @Tags         profiles
// @Produce      json
// @Param        id   path      string  true  "Profile ID"
// @Success      200  {object}  response.Response{data=domain.ProfileSnapshot}
// @Failure      404  {object}  response.Response
// @Router       /profiles/{id} [get]
func (h *ProfileHandler) GetProfile(c *gin.Context) {
	id, ok := profileID(c)
	if !ok {
		return
	}

	profile, err := h.profileUC.GetProfile(c.Request.Context(), id)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Profile", profile)
}

// EditProfile godoc
// @Summary      Edit profile
// @Description  Replaces every profile field. Omitting skills leaves them unchanged, an empty list clears them.
// @Description  Omitting cv_text leaves the stored CV unchanged, a blank value deletes it.
// @Tags         profiles
// @Accept       json
// @Produce      json
// @Param        id       path      string                      true  "Profile ID"
// @Param        profile  body      domain.EditProfileRequest   true  "Profile data"
// @Success      200      {object}  response.Response{data=domain.ProfileSnapshot}
// @Failure      400      {object}  response.Response
// @Failure      404      {object}  response.Response
// @Router       /profiles/{id} [put]
func (h *ProfileHandler) EditProfile(c *gin.Context) {
	id, ok := profileID(c)
	if !ok {
		return
	}

	limitBody(c)
	var req domain.EditProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.BadRequest("Invalid request body"))
		return
	}

	profile, err := h.profileUC.EditProfile(c.Request.Context(), id, &req)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Profile updated", profile)
}

// SyncFromCV godoc
// @Summary      Update profile from CV
// @Description  Extracts fields from the stored CV and merges them into the profile.
// @Tags         profiles
// @Produce      json
// @Param        id   path      string  true  "Profile ID"
// @Success      200  {object}  response.Response{data=domain.ProfileSnapshot}
// @Failure      404  {object}  response.Response
// @Failure      429  {object}  response.Response
// @Failure      502  {object}  response.Response
// @Router       /profiles/{id}/cv-sync [post]
func (h *ProfileHandler) SyncFromCV(c *gin.Context) {
	id, ok := profileID(c)
	if !ok {
		return
	}

	profile, err := h.profileUC.SyncProfileFromCV(c.Request.Context(), id)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Profile updated from CV", profile)
}

// RecommendJobs godoc
// @Summary      Request job recommendations
// @Tags         profiles
// @Produce      json
// @Param        id   path      string  true  "Profile ID"
// @Success      202  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Router       /profiles/{id}/recommend-jobs [post]
func (h *ProfileHandler) RecommendJobs(c *gin.Context) {
	id, ok := profileID(c)
	if !ok {
		return
	}

	if err := h.profileUC.RecommendJobs(c.Request.Context(), id); err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusAccepted, "Job recommendations requested", nil)
}

// UploadCV godoc
// @Summary      Upload CV text
// @Tags         profiles
// @Accept       json
// @Produce      json
// @Param        id   path      string                   true  "Profile ID"
// @Param        cv   body      domain.UploadCVRequest   true  "CV text"
// @Success      200  {object}  response.Response{data=domain.ProfileSnapshot}
// @Failure      400  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Failure      502  {object}  response.Response
// @Router       /profiles/{id}/cv [put]
func (h *ProfileHandler) UploadCV(c *gin.Context) {
	id, ok := profileID(c)
	if !ok {
		return
	}

	limitBody(c)
	var req domain.UploadCVRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.BadRequest("Invalid request body"))
		return
	}

	profile, err := h.profileUC.UploadCV(c.Request.Context(), id, &req)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "CV uploaded", profile)
}

// DeleteCV godoc
// @Summary      Delete CV
// @Tags         profiles
// @Produce      json
// @Param        id   path      string  true  "Profile ID"
// @Success      200  {object}  response.Response{data=domain.ProfileSnapshot}
// @Failure      404  {object}  response.Response
// @Router       /profiles/{id}/cv [delete]
func (h *ProfileHandler) DeleteCV(c *gin.Context) {
	id, ok := profileID(c)
	if !ok {
		return
	}

	profile, err := h.profileUC.DeleteCV(c.Request.Context(), id)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "CV deleted", profile)
}

// limitBody caps request bodies carrying CV text. JSON escaping can double
// the encoded size.
func limitBody(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, 2*domain.MaxCVTextBytes+4096)
}

func profileID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.Error(apperror.BadRequest("Invalid profile ID"))
		return uuid.Nil, false
	}
	return id, true
}
