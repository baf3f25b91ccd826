package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/dubeyRahul26/flexcart/dto"
	"github.com/dubeyRahul26/flexcart/middleware"
	"github.com/dubeyRahul26/flexcart/models"
	"github.com/dubeyRahul26/flexcart/session"
	"github.com/dubeyRahul26/flexcart/store"
	"github.com/dubeyRahul26/flexcart/token"
)

func userBody(user *models.User) gin.H {
	return gin.H{
		"_id":   user.ID.Hex(),
		"name":  user.Name,
		"email": user.Email,
		"role":  user.Role,
	}
}

func Signup(users store.UserStore, sessions *session.Manager, cookies session.Cookies) gin.HandlerFunc {
	return func(c *gin.Context) {
		var body dto.SignupDTO
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
			return
		}

		user, err := users.Create(c.Request.Context(), body.Name, body.Email, body.Password, models.RoleCustomer)
		if err != nil {
			if errors.Is(err, store.ErrDuplicateEmail) {
				c.JSON(http.StatusBadRequest, gin.H{"message": "User already exists"})
				return
			}
			log.Err(err).Msg("signup: create user failed")
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
			return
		}

		// The user record stands even if session creation fails; the client
		// can still log in afterwards.
		accessToken, refreshToken, err := sessions.Create(c.Request.Context(), user.ID.Hex())
		if err != nil {
			log.Err(err).Msg("signup: create session failed")
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
			return
		}

		cookies.WritePair(c.Writer, accessToken, refreshToken)
		c.JSON(http.StatusCreated, userBody(user))
	}
}

func Login(users store.UserStore, sessions *session.Manager, cookies session.Cookies) gin.HandlerFunc {
	return func(c *gin.Context) {
		var body dto.LoginDTO
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
			return
		}

		user, err := users.FindByEmail(c.Request.Context(), body.Email)
		if err != nil && !errors.Is(err, store.ErrNotFound) {
			log.Err(err).Msg("login: user lookup failed")
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
			return
		}
		// Unknown email and wrong password are deliberately the same answer.
		if err != nil || !users.VerifyPassword(user, body.Password) {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid email or password"})
			return
		}

		accessToken, refreshToken, err := sessions.Create(c.Request.Context(), user.ID.Hex())
		if err != nil {
			log.Err(err).Msg("login: create session failed")
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
			return
		}

		cookies.WritePair(c.Writer, accessToken, refreshToken)
		c.JSON(http.StatusOK, userBody(user))
	}
}

func Logout(sessions *session.Manager, codec *token.Codec, cookies session.Cookies) gin.HandlerFunc {
	return func(c *gin.Context) {
		if refreshToken, ok := session.ReadRefresh(c.Request); ok {
			if userID, err := codec.Verify(refreshToken, token.Refresh); err == nil {
				if err := sessions.Destroy(c.Request.Context(), userID); err != nil {
					log.Err(err).Msg("logout: destroy session failed")
					c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
					return
				}
			}
		}

		cookies.Clear(c.Writer)
		c.JSON(http.StatusOK, gin.H{"message": "Logged out successfully"})
	}
}

func RefreshToken(sessions *session.Manager, cookies session.Cookies) gin.HandlerFunc {
	return func(c *gin.Context) {
		refreshToken, _ := session.ReadRefresh(c.Request)

		accessToken, err := sessions.Refresh(c.Request.Context(), refreshToken)
		switch {
		case err == nil:
		case errors.Is(err, session.ErrNoToken):
			c.JSON(http.StatusUnauthorized, gin.H{"message": "No refresh token provided"})
			return
		case errors.Is(err, session.ErrInvalidToken), errors.Is(err, session.ErrSessionMismatch):
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid refresh token"})
			return
		default:
			log.Err(err).Msg("refresh: session refresh failed")
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
			return
		}

		cookies.WriteAccess(c.Writer, accessToken)
		c.JSON(http.StatusOK, gin.H{"message": "Token refreshed successfully"})
	}
}

func GetProfile() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := middleware.CurrentUser(c)
		if user == nil {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized - please login"})
			return
		}
		c.JSON(http.StatusOK, user)
	}
}

func ChangeMyPassword(users store.UserStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := middleware.CurrentUser(c)
		if user == nil {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized - please login"})
			return
		}

		var body dto.ChangeMyPasswordDTO
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
			return
		}

		if !users.VerifyPassword(user, body.CurrentPassword) {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Current password is incorrect"})
			return
		}

		if err := users.UpdatePassword(c.Request.Context(), user.ID.Hex(), body.NewPassword); err != nil {
			log.Err(err).Msg("change password: update failed")
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "Password updated successfully"})
	}
}

// CreateUser lets an admin create accounts with an explicit role.
func CreateUser(users store.UserStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		var body dto.CreateUserDTO
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
			return
		}

		role := models.Role(body.Role)
		if role == "" {
			role = models.RoleCustomer
		}

		user, err := users.Create(c.Request.Context(), body.Name, body.Email, body.Password, role)
		if err != nil {
			if errors.Is(err, store.ErrDuplicateEmail) {
				c.JSON(http.StatusBadRequest, gin.H{"message": "User already exists"})
				return
			}
			log.Err(err).Msg("create user: insert failed")
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
			return
		}

		c.JSON(http.StatusCreated, userBody(user))
	}
}
