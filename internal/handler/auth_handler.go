package handler

import (
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

type credentialsRequest struct {
	Username    string `json:"username"`
	Password    string `json:"password"`
	DisplayName string `json:"display_name"`
}

// Register creates an account with the base user role and signs the
// new user in.
func (a *API) Register(c *gin.Context) {
	var payload credentialsRequest
	if !bindJSON(c, &payload, "username and password are required") {
		return
	}

	profile, err := a.profiles.Register(payload.Username, payload.Password, payload.DisplayName)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	session := sessions.Default(c)
	session.Set(sessionUserKey, profile.ID)
	if err := session.Save(); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"profile": profilePayload(*profile)})
}

// Login verifies credentials and starts a session.
func (a *API) Login(c *gin.Context) {
	var payload credentialsRequest
	if !bindJSON(c, &payload, "username and password are required") {
		return
	}

	profile, err := a.profiles.Authenticate(payload.Username, payload.Password)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	session := sessions.Default(c)
	session.Set(sessionUserKey, profile.ID)
	if err := session.Save(); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"profile": profilePayload(*profile)})
}

// Logout clears the session.
func (a *API) Logout(c *gin.Context) {
	session := sessions.Default(c)
	session.Clear()
	if err := session.Save(); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "signed out"})
}

// Me returns the current principal, or null for anonymous requests.
func (a *API) Me(c *gin.Context) {
	p := principalFrom(c)
	if !p.IsAuthenticated() {
		c.JSON(http.StatusOK, gin.H{"principal": nil})
		return
	}

	c.JSON(http.StatusOK, gin.H{"principal": gin.H{
		"id":       p.ID,
		"username": p.Username,
		"role":     p.Role,
	}})
}
