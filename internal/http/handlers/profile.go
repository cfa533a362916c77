package handlers

import (
	"github.com/gin-gonic/gin"

	types "github.com/yungbote/coursehub-backend/internal/domain"
	"github.com/yungbote/coursehub-backend/internal/http/response"
	"github.com/yungbote/coursehub-backend/internal/platform/logger"
	"github.com/yungbote/coursehub-backend/internal/services"
)

type ProfileHandler struct {
	log      *logger.Logger
	profiles services.ProfileService
}

func NewProfileHandler(log *logger.Logger, profiles services.ProfileService) *ProfileHandler {
	return &ProfileHandler{log: log.With("handler", "ProfileHandler"), profiles: profiles}
}

type profileRequest struct {
	Name         *string                     `json:"name"`
	Email        *string                     `json:"email"`
	Bio          *string                     `json:"bio"`
	Location     *string                     `json:"location"`
	Website      *string                     `json:"website"`
	SocialLinks  *types.SocialLinks          `json:"social_links"`
	Interests    *[]string                   `json:"interests"`
	Skills       *[]string                   `json:"skills"`
	Education    *[]types.Education          `json:"education"`
	Experience   *[]types.Experience         `json:"experience"`
	Achievements *[]types.ProfileAchievement `json:"achievements"`
	Preferences  *types.Preferences          `json:"preferences"`
}

func (r profileRequest) update() services.ProfileUpdate {
	return services.ProfileUpdate{
		Name:         r.Name,
		Email:        r.Email,
		Bio:          r.Bio,
		Location:     r.Location,
		Website:      r.Website,
		SocialLinks:  r.SocialLinks,
		Interests:    r.Interests,
		Skills:       r.Skills,
		Education:    r.Education,
		Experience:   r.Experience,
		Achievements: r.Achievements,
		Preferences:  r.Preferences,
	}
}

type preferencesRequest struct {
	Preferences *types.Preferences `json:"preferences" binding:"required"`
}

// GET /profile
func (h *ProfileHandler) Get(c *gin.Context) {
	overview, err := h.profiles.Get(c.Request.Context())
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, overview)
}

// PATCH /profile
func (h *ProfileHandler) Update(c *gin.Context) {
	var req profileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondBindError(c, err)
		return
	}
	profile, err := h.profiles.Update(c.Request.Context(), req.update())
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, profile)
}

// PATCH /profile/preferences
func (h *ProfileHandler) UpdatePreferences(c *gin.Context) {
	var req preferencesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondBindError(c, err)
		return
	}
	prefs, err := h.profiles.UpdatePreferences(c.Request.Context(), *req.Preferences)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, gin.H{"preferences": prefs})
}

// GET /profile/achievements
func (h *ProfileHandler) Achievements(c *gin.Context) {
	list, err := h.profiles.Achievements(c.Request.Context(), c.Query("type"))
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondList(c, len(list), list)
}

// GET /profile/enrollments
func (h *ProfileHandler) EnrollmentHistory(c *gin.Context) {
	page, err := h.profiles.EnrollmentHistory(c.Request.Context(), c.Query("status"), pageFromQuery(c))
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, page)
}
