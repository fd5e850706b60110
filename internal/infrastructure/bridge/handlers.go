package bridge

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/doeshing/phoenix-go/internal/domain"
)

type executeRequest struct {
	Command string `json:"command" validate:"required,max=512"`
}

type executeResponse struct {
	Status  string                `json:"status"`
	Command string                `json:"command"`
	Message string                `json:"message,omitempty"`
	Result  domain.DispatchResult `json:"result"`
}

type controlResponse struct {
	Status  string        `json:"status"`
	Message string        `json:"message"`
	State   domain.Status `json:"state"`
}

type settingsResponse struct {
	Status   string          `json:"status"`
	Message  string          `json:"message"`
	Settings domain.Settings `json:"settings"`
}

func (s *Server) handleStatus(c *fiber.Ctx) error {
	return c.JSON(s.engine.Status())
}

func (s *Server) handleStart(c *fiber.Ctx) error {
	st := s.engine.Start()
	if !st.IsListening {
		return &Error{Code: http.StatusServiceUnavailable, Err: fmt.Errorf("could not start listening: %s", st.Reason)}
	}
	return c.JSON(controlResponse{Status: "listening", Message: "Started listening for commands", State: st})
}

func (s *Server) handleStop(c *fiber.Ctx) error {
	st := s.engine.Stop()
	return c.JSON(controlResponse{Status: "stopped", Message: "Stopped listening for commands", State: st})
}

func (s *Server) handleExecute(c *fiber.Ctx) error {
	var req executeRequest
	if err := c.BodyParser(&req); err != nil {
		return ErrBadBody
	}
	req.Command = strings.TrimSpace(req.Command)
	if err := s.validator.Struct(req); err != nil {
		return &Error{Code: http.StatusBadRequest, Err: err}
	}

	ctx, cancel := context.WithTimeout(c.UserContext(), s.timeout)
	defer cancel()
	res := s.engine.Dispatch(ctx, req.Command, domain.OriginAPI)

	status := "success"
	if res.Status != domain.DispatchSuccess || (res.ActionResult != nil && !res.ActionResult.Succeeded()) {
		status = "error"
	}
	return c.JSON(executeResponse{
		Status:  status,
		Command: req.Command,
		Message: res.Message(),
		Result:  res,
	})
}

func (s *Server) handleRecent(c *fiber.Ctx) error {
	recent := s.engine.RecentCommands()
	if recent == nil {
		recent = []domain.RecentCommand{}
	}
	return c.JSON(recent)
}

func (s *Server) handleGetSettings(c *fiber.Ctx) error {
	return c.JSON(s.engine.CurrentSettings())
}

func (s *Server) handleUpdateSettings(c *fiber.Ctx) error {
	var partial map[string]interface{}
	if err := c.BodyParser(&partial); err != nil || partial == nil {
		return ErrBadBody
	}
	updated, err := s.engine.UpdateSettings(c.UserContext(), partial)
	if err != nil {
		return err
	}
	return c.JSON(settingsResponse{Status: "success", Message: "Settings updated", Settings: updated})
}

func (s *Server) handleMicrophones(c *fiber.Ctx) error {
	mics, err := s.engine.Microphones(c.UserContext())
	if err != nil {
		s.logger.Warn("microphone listing failed", map[string]interface{}{"error": err.Error()})
	}
	return c.JSON(mics)
}

func (s *Server) handleCommands(c *fiber.Ctx) error {
	return c.JSON(s.engine.Commands())
}

func (s *Server) handleTest(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "ok",
		"message": "Phoenix bridge is running",
		"version": s.version,
	})
}
