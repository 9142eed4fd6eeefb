package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/joshua-takyi/vena/internal/helpers"
	"github.com/joshua-takyi/vena/internal/middleware"
	"github.com/joshua-takyi/vena/internal/models"
	"github.com/joshua-takyi/vena/internal/services"
)

func SignUp(u *services.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.SignupRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, helpers.ErrorResponse("invalid request payload"))
			return
		}

		res, err := u.SignUp(c.Request.Context(), &req)
		if err != nil {
			respondError(c, err, "failed to create account")
			return
		}
		c.JSON(http.StatusCreated, helpers.SuccessResponse(gin.H{"user": res.User}, "Account created successfully"))
	}
}

func Login(u *services.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.LoginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, helpers.ErrorResponse("invalid request payload"))
			return
		}

		tokenRes, err := u.AuthenticateUser(c.Request.Context(), &req)
		if err != nil {
			c.JSON(http.StatusUnauthorized, helpers.ErrorResponse("invalid email or password"))
			return
		}
		if tokenRes.AccessToken == "" {
			c.JSON(http.StatusInternalServerError, helpers.ErrorResponse("invalid token response"))
			return
		}

		middleware.SetAuthCookies(c, tokenRes.AccessToken, tokenRes.ExpiresIn, tokenRes.RefreshToken)

		// return user info but not tokens
		c.JSON(http.StatusOK, helpers.SuccessResponse(gin.H{"user": tokenRes.User}, "Logged in successfully"))
	}
}

func Logout(u *services.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token, err := c.Cookie("access_token"); err == nil && token != "" {
			if err := u.Logout(c.Request.Context(), token); err != nil {
				// the cookies are cleared regardless
				_ = c.Error(err)
			}
		}
		middleware.ClearAuthCookies(c)
		c.JSON(http.StatusOK, helpers.SuccessResponse(nil, "Logged out successfully"))
	}
}
