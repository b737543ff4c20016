package api

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/sadopc/taskday/internal/session"
	"github.com/sadopc/taskday/internal/timer"
)

type createTaskRequest struct {
	Title           string  `json:"title"`
	Day             string  `json:"day"`
	TeamID          *string `json:"team_id"`
	EstimateSeconds *int64  `json:"estimated_duration_seconds"`
}

// updateTaskRequest patches a task. An empty team_id clears the team.
type updateTaskRequest struct {
	Title     *string `json:"title"`
	TeamID    *string `json:"team_id"`
	Completed *bool   `json:"completed"`
}

type startRequest struct {
	TargetSeconds int64 `json:"target_seconds"`
}

type stopRequest struct {
	EndAt *time.Time `json:"end_at"`
}

type targetRequest struct {
	Seconds int64  `json:"seconds"`
	Target  string `json:"target"`
	Mirror  bool   `json:"mirror_to_estimate"`
}

type diaryRequest struct {
	Body string `json:"body"`
}

type teamRequest struct {
	Name  string `json:"name"`
	Color string `json:"color"`
}

func (s *Server) listTasks(c *gin.Context) {
	u := s.user(c)
	day := c.DefaultQuery("day", u.Today())
	if !session.ValidDay(day) {
		writeError(c, http.StatusBadRequest, "validation_failed", "day must be YYYY-MM-DD")
		return
	}
	var teamID *string
	if v := c.Query("team_id"); v != "" {
		teamID = &v
	}
	all, _ := strconv.ParseBool(c.DefaultQuery("all", "true"))

	tasks, err := u.Tasks(c.Request.Context(), day, teamID, all)
	if err != nil {
		s.writeErr(c, err)
		return
	}
	items := make([]taskView, 0, len(tasks))
	for _, t := range tasks {
		items = append(items, toTaskView(t))
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

func (s *Server) createTask(c *gin.Context) {
	var req createTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid_request", "unable to parse body")
		return
	}
	task, err := s.user(c).CreateTask(c.Request.Context(), session.NewTask{
		Day:      req.Day,
		Title:    req.Title,
		TeamID:   req.TeamID,
		Estimate: req.EstimateSeconds,
	})
	if err != nil {
		s.writeErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, toTaskView(*task))
}

func (s *Server) getTask(c *gin.Context) {
	task, err := s.user(c).Task(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.writeErr(c, err)
		return
	}
	c.JSON(http.StatusOK, toTaskView(*task))
}

func (s *Server) updateTask(c *gin.Context) {
	var req updateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid_request", "unable to parse body")
		return
	}
	ctx := c.Request.Context()
	u := s.user(c)
	id := c.Param("id")

	task, err := u.Task(ctx, id)
	if err != nil {
		s.writeErr(c, err)
		return
	}
	if req.Title != nil || req.TeamID != nil {
		title, teamID := task.Title, task.TeamID
		if req.Title != nil {
			title = *req.Title
		}
		if req.TeamID != nil {
			teamID = req.TeamID
			if *req.TeamID == "" {
				teamID = nil
			}
		}
		if err := u.UpdateTask(ctx, id, title, teamID); err != nil {
			s.writeErr(c, err)
			return
		}
	}
	if req.Completed != nil {
		if err := u.CompleteTask(ctx, id, *req.Completed); err != nil {
			s.writeErr(c, err)
			return
		}
	}

	task, err = u.Task(ctx, id)
	if err != nil {
		s.writeErr(c, err)
		return
	}
	c.JSON(http.StatusOK, toTaskView(*task))
}

func (s *Server) deleteTask(c *gin.Context) {
	if err := s.user(c).DeleteTask(c.Request.Context(), c.Param("id")); err != nil {
		s.writeErr(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// timerStatus reports a degraded aggregate with its warnings rather than
// failing when only the entry listing failed.
func (s *Server) timerStatus(c *gin.Context) {
	st, err := s.user(c).TimerStatus(c.Request.Context(), c.Param("id"))
	if err != nil {
		var stErr *timer.StoreError
		if !errors.As(err, &stErr) || st.Task.ID == "" {
			s.writeErr(c, err)
			return
		}
	}
	c.JSON(http.StatusOK, toTimerView(st))
}

func (s *Server) startTimer(c *gin.Context) {
	var req startRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			writeError(c, http.StatusBadRequest, "invalid_request", "unable to parse body")
			return
		}
	}
	res, err := s.user(c).StartTimer(c.Request.Context(), c.Param("id"), req.TargetSeconds)
	if err != nil {
		s.writeErr(c, err)
		return
	}
	status := http.StatusOK
	if res.Created {
		status = http.StatusCreated
	}
	c.JSON(status, toStartView(res))
}

func (s *Server) stopEntry(c *gin.Context) {
	var req stopRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			writeError(c, http.StatusBadRequest, "invalid_request", "unable to parse body")
			return
		}
	}
	entry, err := s.user(c).StopEntry(c.Request.Context(), c.Param("id"), req.EndAt)
	if err != nil {
		s.writeErr(c, err)
		return
	}
	c.JSON(http.StatusOK, toEntryView(entry))
}

func (s *Server) setTarget(c *gin.Context) {
	var req targetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid_request", "unable to parse body")
		return
	}
	secs := req.Seconds
	if req.Target != "" {
		parsed, err := timer.ParseTarget(req.Target)
		if err != nil {
			s.writeErr(c, err)
			return
		}
		secs = parsed
	}
	if err := s.user(c).SetTarget(c.Request.Context(), c.Param("id"), secs, req.Mirror); err != nil {
		s.writeErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"task_id": c.Param("id"), "target_seconds": secs})
}

func (s *Server) clearTarget(c *gin.Context) {
	if err := s.user(c).ClearTarget(c.Request.Context(), c.Param("id")); err != nil {
		s.writeErr(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) getDiary(c *gin.Context) {
	v, err := s.user(c).Diary(c.Request.Context(), c.Param("day"))
	if err != nil {
		s.writeErr(c, err)
		return
	}
	out := diaryView{Day: v.Day}
	if v.Saved != nil {
		out.Body = v.Saved.Body
		out.UpdatedAt = &v.Saved.UpdatedAt
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) saveDiary(c *gin.Context) {
	var req diaryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid_request", "unable to parse body")
		return
	}
	d, err := s.user(c).SaveDiary(c.Request.Context(), c.Param("day"), req.Body)
	if err != nil {
		s.writeErr(c, err)
		return
	}
	c.JSON(http.StatusOK, diaryView{Day: d.Day, Body: d.Body, UpdatedAt: &d.UpdatedAt})
}

func (s *Server) listTeams(c *gin.Context) {
	archived, _ := strconv.ParseBool(c.Query("archived"))
	teams, err := s.user(c).Teams(c.Request.Context(), archived)
	if err != nil {
		s.writeErr(c, err)
		return
	}
	items := make([]teamView, 0, len(teams))
	for _, t := range teams {
		items = append(items, toTeamView(t))
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

func (s *Server) createTeam(c *gin.Context) {
	var req teamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid_request", "unable to parse body")
		return
	}
	team, err := s.user(c).CreateTeam(c.Request.Context(), req.Name, strings.TrimSpace(req.Color))
	if err != nil {
		s.writeErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, toTeamView(*team))
}

func (s *Server) dailyReport(c *gin.Context) {
	u := s.user(c)
	from, to := u.LastDays(7)
	from = c.DefaultQuery("from", from)
	to = c.DefaultQuery("to", to)

	sums, err := u.DailySummary(c.Request.Context(), from, to)
	if err != nil {
		s.writeErr(c, err)
		return
	}
	items := make([]summaryView, 0, len(sums))
	var total int64
	for _, ds := range sums {
		total += ds.TotalSeconds
		items = append(items, summaryView{
			Day:          ds.Day,
			TeamID:       ds.TeamID,
			TeamName:     ds.TeamName,
			TotalSeconds: ds.TotalSeconds,
			EntryCount:   ds.EntryCount,
		})
	}
	c.JSON(http.StatusOK, gin.H{"from": from, "to": to, "total_seconds": total, "items": items})
}
