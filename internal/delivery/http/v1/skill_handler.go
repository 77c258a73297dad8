package v1

import (
	"net/http"

	"go-profile-backend/internal/delivery/http/response"
	"go-profile-backend/internal/domain"

	"github.com/gin-gonic/gin"
)

type SkillHandler struct {
	skillUC domain.SkillUsecase
}

func NewSkillHandler(r *gin.RouterGroup, skillUC domain.SkillUsecase) {
	handler := &SkillHandler{skillUC: skillUC}
	r.GET("/skills", handler.ListSkills)
}

// ListSkills godoc
// @Summary      List skill vocabulary
// @Tags         skills
// @Produce      json
// @Success      200  {object}  response.Response{data=[]string}
// @Router       /skills [get]
func (h *SkillHandler) ListSkills(c *gin.Context) {
	skills, err := h.skillUC.ListSkills(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Skills", skills)
}
