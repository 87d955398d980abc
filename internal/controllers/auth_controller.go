package controllers

import (
	"crypto/rand"
	"encoding/hex"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"transit_issues/internal/apperr"
	"transit_issues/internal/auth"
)

type AuthController struct {
	verifier auth.Verifier
}

func NewAuthController(v auth.Verifier) *AuthController {
	return &AuthController{verifier: v}
}

// AuthURL handles GET /auth/url: the Google consent URL with a fresh state
// nonce. Clients carry the state through the redirect themselves; there is
// no server-side session.
func (ac *AuthController) AuthURL(c *gin.Context) {
	state := make([]byte, 16)
	if _, err := rand.Read(state); err != nil {
		writeError(c, err)
		return
	}

	url := ac.verifier.AuthURL(hex.EncodeToString(state))
	if url == "" {
		c.JSON(http.StatusNotImplemented, gin.H{"Error": "Browser sign-in is not configured for this auth mode"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"url": url})
}

// Callback handles GET /auth/callback?code=: exchanges the authorization
// code and hands back the verified subject plus the ID token to use as a
// bearer credential.
func (ac *AuthController) Callback(c *gin.Context) {
	code := c.Query("code")
	if code == "" {
		writeError(c, apperr.Validation("The request is missing the authorization code"))
		return
	}

	tokens, err := ac.verifier.ExchangeCode(c.Request.Context(), code)
	if err != nil {
		logrus.WithError(err).Warn("Callback: code exchange failed")
		writeError(c, apperr.Validation("The authorization code could not be exchanged"))
		return
	}

	sub, err := ac.verifier.VerifyIDToken(c.Request.Context(), tokens.IDToken)
	if err != nil {
		logrus.WithError(err).Warn("Callback: exchanged ID token failed verification")
		writeError(c, apperr.Credentials(msgMissingToken))
		return
	}

	c.JSON(http.StatusOK, gin.H{"sub": sub, "id_token": tokens.IDToken})
}
