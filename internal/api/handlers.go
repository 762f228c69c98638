package api

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/abhisek/syncrate/internal/achievements"
	"github.com/abhisek/syncrate/internal/calibration"
	"github.com/abhisek/syncrate/internal/challenges"
	"github.com/abhisek/syncrate/internal/diagnostics"
	"github.com/abhisek/syncrate/internal/profile"
)

// maxCodeLen bounds submitted source; the editor never gets close.
const maxCodeLen = 64 * 1024

type healthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version,omitempty"`
	Review  bool   `json:"review"`
}

func (s *Server) health(c *fiber.Ctx) error {
	return c.JSON(healthResponse{
		Status:  "ok",
		Version: s.opts.Version,
		Review:  s.deps.Diagnostics != nil && s.deps.Diagnostics.CanReview(),
	})
}

// questionView hides the correct index from clients.
type questionView struct {
	ID       string               `json:"id"`
	Category calibration.Category `json:"category"`
	Prompt   string               `json:"prompt"`
	Code     string               `json:"code,omitempty"`
	Options  []string             `json:"options"`
	Seconds  int                  `json:"seconds"`
}

func (s *Server) calibrationQuestions(c *fiber.Ctx) error {
	bank := calibration.DefaultBank()
	out := make([]questionView, len(bank))
	for i, q := range bank {
		out[i] = questionView{
			ID:       q.ID,
			Category: q.Category,
			Prompt:   q.Prompt,
			Code:     q.Code,
			Options:  q.Options,
			Seconds:  q.Seconds(),
		}
	}
	return c.JSON(out)
}

type scoreRequest struct {
	// Answers follow the order of /calibration/questions; -1 means timed out.
	Answers   []int  `json:"answers"`
	StudentID string `json:"student_id,omitempty"`
}

type scoreResponse struct {
	calibration.AssessmentResult
	NewBadges []achievements.Badge `json:"new_badges,omitempty"`
}

func (s *Server) calibrationScore(c *fiber.Ctx) error {
	var req scoreRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest("malformed JSON body")
	}
	bank := calibration.DefaultBank()
	if len(req.Answers) > len(bank) {
		return badRequest(fmt.Sprintf("at most %d answers", len(bank)))
	}

	res := calibration.Score(bank, req.Answers)
	out := scoreResponse{AssessmentResult: res}
	if req.StudentID != "" {
		p, err := s.deps.Profiles.Find(c.UserContext(), req.StudentID)
		if err != nil {
			return err
		}
		u, err := s.deps.Profiles.RecordAssessment(c.UserContext(), p.ID, res)
		if err != nil {
			return err
		}
		out.NewBadges = u.NewBadges
	}
	return c.JSON(out)
}

type diagnoseRequest struct {
	Code      string `json:"code"`
	Expected  string `json:"expected"`
	StudentID string `json:"student_id,omitempty"`
	Review    bool   `json:"review,omitempty"`
}

func (s *Server) diagnose(c *fiber.Ctx) error {
	var req diagnoseRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest("malformed JSON body")
	}
	if len(req.Code) > maxCodeLen {
		return badRequest("code too long")
	}
	expected, ok := diagnostics.ParsePattern(req.Expected)
	if !ok {
		return badRequest(fmt.Sprintf("unknown expected pattern %q", req.Expected))
	}

	dreq := &diagnostics.Request{StudentID: req.StudentID, Code: req.Code, Expected: expected}
	if s.deps.Diagnostics == nil {
		return c.JSON(diagnostics.Diagnose(req.Code, expected))
	}
	// The HTTP caller cannot receive a late callback, so a review is
	// run inline when asked for and never queued otherwise.
	if req.Review {
		return c.JSON(s.deps.Diagnostics.Review(c.UserContext(), dreq))
	}
	return c.JSON(s.deps.Diagnostics.Check(c.UserContext(), dreq))
}

type syntaxRequest struct {
	Code string `json:"code"`
}

type syntaxResponse struct {
	diagnostics.SyntaxCheck
	Result *diagnostics.Result `json:"result,omitempty"`
}

func (s *Server) diagnoseSyntax(c *fiber.Ctx) error {
	var req syntaxRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest("malformed JSON body")
	}
	if len(req.Code) > maxCodeLen {
		return badRequest("code too long")
	}
	return c.JSON(syntaxResponse{
		SyntaxCheck: diagnostics.CheckSyntax(req.Code),
		Result:      diagnostics.DiagnoseSyntax(req.Code),
	})
}

// challengeView omits the grading tokens.
type challengeView struct {
	ID         string                `json:"id"`
	Title      string                `json:"title"`
	Category   calibration.Category  `json:"category"`
	Difficulty challenges.Difficulty `json:"difficulty"`
	Prompt     string                `json:"prompt"`
	Starter    string                `json:"starter"`
	Expected   diagnostics.Pattern   `json:"expected,omitempty"`
	XP         int                   `json:"xp"`
}

func viewChallenge(ch challenges.Challenge) challengeView {
	return challengeView{
		ID:         ch.ID,
		Title:      ch.Title,
		Category:   ch.Category,
		Difficulty: ch.Difficulty,
		Prompt:     ch.Prompt,
		Starter:    ch.StarterCode(),
		Expected:   ch.Expected,
		XP:         ch.XP,
	}
}

func (s *Server) listChallenges(c *fiber.Ctx) error {
	all := challenges.Catalog()
	out := make([]challengeView, len(all))
	for i, ch := range all {
		out[i] = viewChallenge(ch)
	}
	return c.JSON(out)
}

func (s *Server) getChallenge(c *fiber.Ctx) error {
	ch, err := challenges.Get(c.Params("id"))
	if err != nil {
		return fiber.NewError(http.StatusNotFound, err.Error())
	}
	return c.JSON(viewChallenge(ch))
}

type submitRequest struct {
	StudentID string `json:"student_id"`
	Code      string `json:"code"`
}

type submitResponse struct {
	challenges.Outcome
	XPAwarded  int                  `json:"xp_awarded"`
	FirstClear bool                 `json:"first_clear"`
	NewBadges  []achievements.Badge `json:"new_badges,omitempty"`
	SyncRate   *int                 `json:"sync_rate,omitempty"`
}

func (s *Server) submitChallenge(c *fiber.Ctx) error {
	ch, err := challenges.Get(c.Params("id"))
	if err != nil {
		return fiber.NewError(http.StatusNotFound, err.Error())
	}
	var req submitRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest("malformed JSON body")
	}
	if strings.TrimSpace(req.Code) == "" {
		return badRequest("code is required")
	}
	if len(req.Code) > maxCodeLen {
		return badRequest("code too long")
	}

	out := challenges.Evaluate(ch, req.Code)
	resp := submitResponse{Outcome: out}
	if req.StudentID == "" {
		return c.JSON(resp)
	}

	p, err := s.deps.Profiles.Find(c.UserContext(), req.StudentID)
	if err != nil {
		return err
	}
	u, err := s.deps.Profiles.RecordSubmission(c.UserContext(), p.ID, ch, out)
	if err != nil {
		return err
	}
	resp.XPAwarded = u.XPAwarded
	resp.FirstClear = u.FirstClear
	resp.NewBadges = u.NewBadges
	resp.SyncRate = &u.Profile.SyncRate
	return c.JSON(resp)
}

func (s *Server) listStudents(c *fiber.Ctx) error {
	all, err := s.deps.Profiles.List(c.UserContext())
	if err != nil {
		return err
	}
	role := c.Query("role")
	out := make([]profile.Profile, 0, len(all))
	for _, p := range all {
		if role != "" && string(p.Role) != role {
			continue
		}
		out = append(out, p)
	}
	return c.JSON(out)
}

func (s *Server) getStudent(c *fiber.Ctx) error {
	p, err := s.deps.Profiles.Find(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(p)
}

func (s *Server) analytics(c *fiber.Ctx) error {
	if s.deps.Analytics == nil {
		return fiber.NewError(http.StatusServiceUnavailable, "analytics unavailable")
	}
	o, err := s.deps.Analytics.Overview(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(o)
}
