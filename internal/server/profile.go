package server

import (
	"net/http"
	"strings"

	profiledomain "github.com/ahmedooo1/nfeat/internal/profile/domain"
	"github.com/gin-gonic/gin"
)

type updateProfileRequest struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

type updatePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

// @Summary      Get Profile
// @Description  Fetch the authenticated user's profile
// @Tags         profile
// @Produce      json
// @Success      200  {object}  profiledomain.Response
// @Router       /user/profile [get]
func (s *Server) GetProfile(c *gin.Context) {
	userID, err := s.currentUserID(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	resp, err := s.profileSvc.Get(c.Request.Context(), userID)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

// @Summary      Update Profile
// @Description  Update the authenticated user's name and email
// @Tags         profile
// @Accept       json
// @Produce      json
// @Param        request body updateProfileRequest true "Update Profile Request"
// @Success      200  {object}  profiledomain.Response
// @Router       /user/profile [put]
func (s *Server) UpdateProfile(c *gin.Context) {
	userID, err := s.currentUserID(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	var req updateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.profileSvc.Update(c.Request.Context(), profiledomain.UpdateRequest{
		UserID: userID,
		Email:  strings.TrimSpace(req.Email),
		Name:   strings.TrimSpace(req.Name),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

// @Summary      Change Password
// @Description  Change the authenticated user's password
// @Tags         profile
// @Accept       json
// @Produce      json
// @Param        request body updatePasswordRequest true "Change Password Request"
// @Success      200  {object}  map[string]string
// @Router       /user/profile/password [put]
func (s *Server) UpdatePassword(c *gin.Context) {
	userID, err := s.currentUserID(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	var req updatePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}
	if req.NewPassword == "" {
		AbortWithError(c, newValidationError("new_password", "required", "new_password is required"))
		return
	}

	if err := s.profileSvc.ChangePassword(c.Request.Context(), profiledomain.ChangePasswordRequest{
		UserID:          userID,
		CurrentPassword: req.CurrentPassword,
		NewPassword:     req.NewPassword,
	}); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
