package http

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cartpilot/backend/internal/domain"
	"github.com/cartpilot/backend/internal/usecase"
)

// Handler holds dependencies for HTTP handlers
type Handler struct {
	parser   *usecase.CommandParser
	shopping *usecase.ShoppingService
}

// NewHandler creates a new HTTP handler
func NewHandler(parser *usecase.CommandParser, shopping *usecase.ShoppingService) *Handler {
	return &Handler{
		parser:   parser,
		shopping: shopping,
	}
}

// ChatRequest is one inbound chat turn
type ChatRequest struct {
	SessionID string `json:"sessionId" binding:"required"`
	Message   string `json:"message" binding:"required"`
}

// ChatResponse is the bot's reply for one turn
type ChatResponse struct {
	Intent  string           `json:"intent"`
	Reply   string           `json:"reply"`
	Results []domain.Listing `json:"results,omitempty"`
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "cartpilot-backend",
		"version": "1.0.0",
	})
}

// Chat handles one chat turn: parse the free-text message, dispatch on
// intent, and render a reply
func (h *Handler) Chat(c *gin.Context) {
	var req ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "sessionId and message are required",
		})
		return
	}

	cmd := h.parser.Parse(req.Message)
	log.Printf("[CHAT] session=%s message=%q intent=%s query=%q budget=%.2f",
		req.SessionID, req.Message, cmd.Intent, cmd.Query, cmd.Budget)

	resp := ChatResponse{Intent: string(cmd.Intent)}

	switch cmd.Intent {
	case domain.IntentHelp:
		resp.Reply = helpText

	case domain.IntentStatus:
		resp.Reply = formatStatus(h.shopping.Status(c.Request.Context(), req.SessionID))

	case domain.IntentResults:
		results, err := h.shopping.Results(c.Request.Context(), req.SessionID)
		if err != nil {
			resp.Reply = "No recent results. Run a search first."
			break
		}
		resp.Reply = formatResults(results)
		resp.Results = results

	case domain.IntentSearch:
		results, err := h.shopping.Search(c.Request.Context(), req.SessionID, cmd)
		if err != nil {
			h.renderError(c, cmd, err)
			return
		}
		resp.Reply = formatResults(results)
		resp.Results = results

	case domain.IntentAdd:
		added, err := h.shopping.AddToCart(c.Request.Context(), req.SessionID, cmd.Items)
		if err != nil {
			h.renderError(c, cmd, err)
			return
		}
		resp.Reply = formatCartResults(added)

	case domain.IntentCart:
		path, err := h.shopping.CartScreenshot(c.Request.Context())
		if err != nil {
			h.renderError(c, cmd, err)
			return
		}
		resp.Reply = "Cart screenshot saved: " + path

	default:
		resp.Reply = "I didn't understand that. Try 'help' for commands."
	}

	c.JSON(http.StatusOK, resp)
}

// History returns a session's recent search records
func (h *Handler) History(c *gin.Context) {
	sessionID := c.Param("sessionId")

	records, err := h.shopping.History(c.Request.Context(), sessionID, 20)
	if err != nil {
		if errors.Is(err, domain.ErrNoResults) {
			c.JSON(http.StatusNotFound, gin.H{"error": "search history is not enabled"})
			return
		}
		log.Printf("[CHAT] History fetch failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"sessionId": sessionID,
		"history":   records,
	})
}

// renderError maps domain sentinels onto HTTP responses. Flow errors
// (nothing to show, nothing selected) are normal replies, not failures.
func (h *Handler) renderError(c *gin.Context, cmd domain.Command, err error) {
	resp := ChatResponse{Intent: string(cmd.Intent)}

	switch {
	case errors.Is(err, domain.ErrNoResults):
		resp.Reply = "No results to add. Run a search first."
		c.JSON(http.StatusOK, resp)
	case errors.Is(err, domain.ErrEmptySelection):
		resp.Reply = "No valid items to add. Use 'add all' or 'add 1 3 5'."
		c.JSON(http.StatusOK, resp)
	case errors.Is(err, domain.ErrInvalidRequest):
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
	case errors.Is(err, domain.ErrStorefrontFailure):
		log.Printf("[CHAT] Storefront failure: %v", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "storefront unavailable, try again shortly"})
	default:
		log.Printf("[CHAT] Unexpected error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
