// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package devserver

import (
	"net/http"
	"strconv"
	"unicode/utf8"

	"github.com/gin-gonic/gin"

	"github.com/jeranaias/nuvexa-tui/internal/gateway"
	"github.com/jeranaias/nuvexa-tui/internal/model"
)

// Field limits enforced on request bodies.
const (
	MaxMessageLength = 2000
	MaxQueryLength   = 200
)

// chatRequest mirrors gateway.ChatRequest with pointers so that missing
// fields can be told apart from empty ones.
type chatRequest struct {
	Message             *string                `json:"message"`
	Mode                *string                `json:"mode"`
	ConversationHistory []gateway.HistoryEntry `json:"conversation_history"`
}

type shopRequest struct {
	Query *string `json:"query"`
}

// fieldError is one entry of a validation failure's detail list.
type fieldError struct {
	Loc  []string `json:"loc"`
	Msg  string   `json:"msg"`
	Type string   `json:"type"`
}

func errorBody(detail string) gin.H {
	return gin.H{"detail": detail}
}

// validationFailed answers 422 with a list-valued detail, which clients
// cannot show verbatim.
func validationFailed(c *gin.Context, errs ...fieldError) {
	c.JSON(http.StatusUnprocessableEntity, gin.H{
		"error":  "Validation Error",
		"detail": errs,
	})
}

func checkLength(field, value string, max int) *fieldError {
	n := utf8.RuneCountInString(value)
	switch {
	case n == 0:
		return &fieldError{
			Loc:  []string{"body", field},
			Msg:  "String should have at least 1 character",
			Type: "string_too_short",
		}
	case n > max:
		return &fieldError{
			Loc:  []string{"body", field},
			Msg:  "String should have at most " + strconv.Itoa(max) + " characters",
			Type: "string_too_long",
		}
	}
	return nil
}

func (s *Server) handleRoot(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "Welcome to NUVEXA",
		"version": s.version,
	})
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":            "healthy",
		"version":           s.version,
		"openai_configured": false,
	})
}

func (s *Server) handleModes(c *gin.Context) {
	c.JSON(http.StatusOK, gateway.ModesResponse{Modes: s.modes})
}

func (s *Server) handleChat(c *gin.Context) {
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		validationFailed(c, fieldError{Loc: []string{"body"}, Msg: err.Error(), Type: "json_invalid"})
		return
	}

	var errs []fieldError
	if req.Message == nil {
		errs = append(errs, fieldError{Loc: []string{"body", "message"}, Msg: "Field required", Type: "missing"})
	} else if fe := checkLength("message", *req.Message, MaxMessageLength); fe != nil {
		errs = append(errs, *fe)
	}
	mode := model.DefaultMode
	if req.Mode != nil {
		mode = *req.Mode
		if _, ok := model.FindMode(s.modes, mode); !ok {
			errs = append(errs, fieldError{
				Loc:  []string{"body", "mode"},
				Msg:  "Input should be 'assistant' or 'shopping'",
				Type: "literal_error",
			})
		}
	}
	if len(errs) > 0 {
		validationFailed(c, errs...)
		return
	}

	message := *req.Message
	s.log.Info("chat request", "mode", mode, "message_length", utf8.RuneCountInString(message))

	reply, err := s.responder.Reply(c.Request.Context(), message, mode, req.ConversationHistory)
	if err != nil {
		s.log.Error("chat failed", "error", err)
		c.JSON(http.StatusInternalServerError, errorBody("Failed to process chat request: "+err.Error()))
		return
	}

	resp := gateway.ChatResponse{Message: reply, Mode: mode}
	if mode == model.ModeShopping {
		if query := ExtractProductQuery(message); query != "" {
			if products := s.catalog.Search(query); len(products) > 0 {
				resp.Products = products
				s.log.Info("products attached", "query", query, "count", len(products))
			}
		}
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) handleShop(c *gin.Context) {
	var req shopRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		validationFailed(c, fieldError{Loc: []string{"body"}, Msg: err.Error(), Type: "json_invalid"})
		return
	}
	if req.Query == nil {
		validationFailed(c, fieldError{Loc: []string{"body", "query"}, Msg: "Field required", Type: "missing"})
		return
	}
	if fe := checkLength("query", *req.Query, MaxQueryLength); fe != nil {
		validationFailed(c, *fe)
		return
	}

	query := *req.Query
	s.log.Info("shop request", "query", query)

	products := s.catalog.Search(query)
	c.JSON(http.StatusOK, gateway.ShopResponse{
		Query:    query,
		Products: products,
		Count:    len(products),
	})
}

func (s *Server) handleNotFound(c *gin.Context) {
	c.JSON(http.StatusNotFound, errorBody("Not Found"))
}
