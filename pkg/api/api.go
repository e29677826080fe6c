// Package api implements the REST API for evaluating and graphing dice
// expressions.
package api

import (
	"errors"
	"fmt"
	"log"
	"net"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/lemonberrylabs/dicer/pkg/dice"
	"github.com/lemonberrylabs/dicer/pkg/graph"
	"github.com/lemonberrylabs/dicer/pkg/store"
)

// Server is the dicer API server.
type Server struct {
	app   *fiber.App
	store *store.Store

	// newSeed supplies a seed when a request does not carry one.
	newSeed func() (int64, error)
}

// New creates a new API server backed by s.
func New(s *store.Store) *Server {
	srv := &Server{
		store:   s,
		newSeed: dice.NewSeed,
	}

	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		ReadTimeout:           30 * time.Second,
		WriteTimeout:          30 * time.Second,
	})

	app.Post("/v1/rolls", srv.createRoll)
	app.Get("/v1/rolls/:roll", srv.getRoll)
	app.Get("/v1/rolls", srv.listRolls)
	app.Post("/v1/graphs", srv.createGraph)

	srv.app = app
	return srv
}

// Listen starts the HTTP server on the given address.
func (s *Server) Listen(addr string) error {
	return s.app.Listen(addr)
}

// Serve accepts connections on ln.
func (s *Server) Serve(ln net.Listener) error {
	return s.app.Listener(ln)
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}

// App returns the underlying Fiber app.
func (s *Server) App() *fiber.App {
	return s.app
}

// --- Roll Handlers ---

type createRollRequest struct {
	Expression string `json:"expression"`
	Mode       string `json:"mode"`
	Seed       *int64 `json:"seed"`
}

func (s *Server) createRoll(c *fiber.Ctx) error {
	var req createRollRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidArgument(c, fmt.Sprintf("invalid request body: %v", err))
	}
	if strings.TrimSpace(req.Expression) == "" {
		return invalidArgument(c, "expression is required")
	}

	mode, err := dice.ParseMode(req.Mode)
	if err != nil {
		return invalidArgument(c, err.Error())
	}

	var seed int64
	if mode == dice.ModeRandom {
		if req.Seed != nil {
			seed = *req.Seed
		} else if seed, err = s.newSeed(); err != nil {
			log.Printf("Warning: %v", err)
			return c.Status(500).JSON(fiber.Map{
				"error": fiber.Map{
					"code":    500,
					"message": "could not seed roller",
					"status":  "INTERNAL",
				},
			})
		}
	}

	node, err := dice.Parse(req.Expression)
	if err != nil {
		return exprError(c, req.Expression, err)
	}
	res, err := dice.Evaluate(node, dice.NewRoller(mode, seed))
	if err != nil {
		return exprError(c, req.Expression, err)
	}

	r := s.store.CreateRoll(store.Roll{
		Expression: strings.TrimSpace(req.Expression),
		Canonical:  dice.Format(node),
		Mode:       mode.String(),
		Seed:       seed,
		Total:      res.Total,
		Dice:       res.Rolls,
	})
	return c.JSON(rollToJSON(r))
}

func (s *Server) getRoll(c *fiber.Ctx) error {
	name := "rolls/" + c.Params("roll")
	r, err := s.store.GetRoll(name)
	if err != nil {
		return c.Status(404).JSON(fiber.Map{
			"error": fiber.Map{
				"code":    404,
				"message": err.Error(),
				"status":  "NOT_FOUND",
			},
		})
	}
	return c.JSON(rollToJSON(r))
}

func (s *Server) listRolls(c *fiber.Ctx) error {
	rolls := s.store.ListRolls()
	result := make([]fiber.Map, 0, len(rolls))
	for _, r := range rolls {
		result = append(result, rollToJSON(r))
	}
	return c.JSON(fiber.Map{"rolls": result})
}

// --- Graph Handlers ---

type createGraphRequest struct {
	Expression string `json:"expression"`
	Format     string `json:"format"`
}

func (s *Server) createGraph(c *fiber.Ctx) error {
	var req createGraphRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidArgument(c, fmt.Sprintf("invalid request body: %v", err))
	}
	if req.Format == "" {
		req.Format = graph.FormatDOT.String()
	}
	format, err := graph.ParseFormat(req.Format)
	if err != nil {
		return invalidArgument(c, err.Error())
	}

	node, err := dice.Parse(req.Expression)
	if err != nil {
		return exprError(c, req.Expression, err)
	}

	c.Set("Content-Type", format.ContentType())
	return c.SendString(graph.String(node, format))
}

// --- Helpers ---

func invalidArgument(c *fiber.Ctx, message string) error {
	return c.Status(400).JSON(fiber.Map{
		"error": fiber.Map{
			"code":    400,
			"message": message,
			"status":  "INVALID_ARGUMENT",
		},
	})
}

// exprError reports a lex, parse or evaluation failure with its reason tag
// and source position.
func exprError(c *fiber.Ctx, expr string, err error) error {
	var de *dice.Error
	if !errors.As(err, &de) {
		return invalidArgument(c, err.Error())
	}
	log.Printf("Rejected expression %q: %v", expr, err)
	return c.Status(400).JSON(fiber.Map{
		"error": fiber.Map{
			"code":     400,
			"message":  de.Error(),
			"status":   "INVALID_ARGUMENT",
			"stage":    de.Stage(),
			"reason":   de.Reason(),
			"position": de.Pos,
		},
	})
}

func rollToJSON(r *store.Roll) fiber.Map {
	result := fiber.Map{
		"name":       r.Name,
		"expression": r.Expression,
		"canonical":  r.Canonical,
		"mode":       r.Mode,
		"total":      r.Total,
		"dice":       r.Dice,
		"createTime": r.CreateTime.Format(time.RFC3339),
	}
	if r.Mode == dice.ModeRandom.String() {
		result["seed"] = r.Seed
	}
	return result
}
