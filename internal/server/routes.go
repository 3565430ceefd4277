// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package server

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/pdiddy/paper-graph/internal/render"
	"github.com/pdiddy/paper-graph/internal/store"
	"github.com/pdiddy/paper-graph/pkg/types"
)

func (s *Server) routes() {
	s.app.Get("/", s.banner)
	s.app.Get("/healthz", s.health)

	s.app.Post("/papers/select", s.selectPaper)
	s.app.Post("/papers", s.addPaper)
	s.app.Get("/papers", s.listPapers)
	s.app.Get("/papers/:id", s.getPaper)
	s.app.Delete("/papers/:id", s.deletePaper)

	s.app.Post("/edges/batch", s.addEdges)
	s.app.Post("/edges", s.addEdge)
	s.app.Get("/edges", s.listEdges)
	s.app.Delete("/edges/:id", s.deleteEdge)

	s.app.Get("/graph", s.graph)
	s.app.Get("/graph/cytoscape", s.cytoscape)

	s.app.Post("/chat", s.chat)
	s.app.Get("/chat/history", s.chatHistory)
	s.app.Delete("/chat/history", s.clearChatHistory)
}

func (s *Server) banner(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"message": "Research Paper Connection Agent API"})
}

func (s *Server) health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

// --- papers ---

func (s *Server) addPaper(c *fiber.Ctx) error {
	var req types.AddPaperRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	paper, _, err := s.assistant.AddPaper(c.UserContext(), req.ArxivID)
	if err != nil {
		return err
	}
	return c.JSON(paper)
}

func (s *Server) selectPaper(c *fiber.Ctx) error {
	var req types.SelectPaperRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	return c.JSON(s.assistant.SelectPaper(c.UserContext(), req.ArxivID, req.SourcePaperID))
}

func (s *Server) listPapers(c *fiber.Ctx) error {
	papers, err := s.store.ListPapers(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(papers)
}

func (s *Server) getPaper(c *fiber.Ctx) error {
	paper, err := s.store.GetPaper(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(paper)
}

func (s *Server) deletePaper(c *fiber.Ctx) error {
	ctx := c.UserContext()
	paper, err := s.store.GetPaper(ctx, c.Params("id"))
	if err != nil {
		return err
	}
	if err := s.store.DeletePaper(ctx, paper.ID); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": fmt.Sprintf("Paper '%s' deleted", paper.Title)})
}

// --- edges ---

func (s *Server) addEdge(c *fiber.Ctx) error {
	var req types.CreateEdgeRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	edge, created, err := s.store.AddEdge(c.UserContext(), edgeFrom(req))
	switch {
	case errors.Is(err, store.ErrNotFound):
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	case err != nil:
		return err
	case !created:
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": "papers are already connected",
			"edge":  edge,
		})
	}
	return c.Status(fiber.StatusCreated).JSON(edge)
}

// addEdges creates every valid edge in the batch. Duplicates and invalid
// entries are skipped.
func (s *Server) addEdges(c *fiber.Ctx) error {
	var reqs []types.CreateEdgeRequest
	if err := c.BodyParser(&reqs); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	ctx := c.UserContext()
	created := []types.Edge{}
	for _, req := range reqs {
		edge, isNew, err := s.store.AddEdge(ctx, edgeFrom(req))
		if err != nil {
			s.log.Warn().Err(err).Str("source", req.SourceID).Str("target", req.TargetID).Msg("skipping batch edge")
			continue
		}
		if isNew {
			created = append(created, edge)
		}
	}
	return c.JSON(created)
}

func (s *Server) listEdges(c *fiber.Ctx) error {
	edges, err := s.store.ListEdges(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(edges)
}

func (s *Server) deleteEdge(c *fiber.Ctx) error {
	if err := s.store.DeleteEdge(c.UserContext(), c.Params("id")); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "Edge deleted"})
}

// edgeFrom turns a request into an edge, defaulting the type to manual.
func edgeFrom(req types.CreateEdgeRequest) types.Edge {
	t := req.Type
	if t == "" {
		t = types.EdgeManual
	}
	return types.Edge{
		SourceID: strings.TrimSpace(req.SourceID),
		TargetID: strings.TrimSpace(req.TargetID),
		Type:     t,
		Evidence: req.Evidence,
	}
}

// --- graph ---

func (s *Server) graph(c *fiber.Ctx) error {
	g, err := s.store.GraphData(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(g)
}

func (s *Server) cytoscape(c *fiber.Ctx) error {
	g, err := s.store.GraphData(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(render.Cytoscape(g))
}

// --- chat ---

func (s *Server) chat(c *fiber.Ctx) error {
	var req types.ChatRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	return c.JSON(s.assistant.Chat(c.UserContext(), req.Message))
}

func (s *Server) chatHistory(c *fiber.Ctx) error {
	history, err := s.store.ChatHistory(c.UserContext(), c.QueryInt("limit", 0))
	if err != nil {
		return err
	}
	return c.JSON(history)
}

func (s *Server) clearChatHistory(c *fiber.Ctx) error {
	if err := s.store.ClearChatHistory(c.UserContext()); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "Chat history cleared"})
}
