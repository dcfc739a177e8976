// Package httpapi: 진행도 서비스의 HTTP 파사드.
package httpapi

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/park285/stellar-mind-go/internal/common/health"
	commonhttputil "github.com/park285/stellar-mind-go/internal/common/httputil"
	progressconfig "github.com/park285/stellar-mind-go/internal/progress/config"
	"github.com/park285/stellar-mind-go/internal/progress/metrics"
	"github.com/park285/stellar-mind-go/internal/progress/report"
	"github.com/park285/stellar-mind-go/internal/progress/service"
)

const saveWaitTimeout = 30 * time.Second

// Handler: 진행도 API 핸들러 묶음.
// 변이와 그 응답 렌더링은 하나의 mutex로 직렬화된다.
type Handler struct {
	store    *service.ProgressStore
	archive  *service.CycleArchive
	reporter *report.Reporter
	metrics  *metrics.Metrics
	validate *validator.Validate
	logger   *slog.Logger

	mu sync.Mutex
}

// NewHandler: 새로운 Handler 인스턴스를 생성합니다.
func NewHandler(
	store *service.ProgressStore,
	archive *service.CycleArchive,
	reporter *report.Reporter,
	m *metrics.Metrics,
	logger *slog.Logger,
) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		store:    store,
		archive:  archive,
		reporter: reporter,
		metrics:  m,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		logger:   logger,
	}
}

// Register: 라우트를 mux에 등록한다.
func Register(mux *http.ServeMux, h *Handler) {
	mux.HandleFunc("GET /health", h.handleHealth)
	if h.metrics != nil {
		mux.Handle("GET /metrics", h.metrics.Handler())
	}

	mux.HandleFunc("GET /api/progress", h.handleGetProgress)
	mux.HandleFunc("POST /api/progress/stages", h.handleRecordStage)
	mux.HandleFunc("POST /api/progress/resume", h.handleSetResume)
	mux.HandleFunc("POST /api/progress/player", h.handleUpdatePlayer)
	mux.HandleFunc("POST /api/progress/games/{gameIndex}/open", h.handleOpenGame)
	mux.HandleFunc("POST /api/progress/cycles/advance", h.handleAdvanceCycle)
	mux.HandleFunc("POST /api/progress/save", h.handleSave)
	mux.HandleFunc("POST /api/progress/reload", h.handleReload)
	mux.HandleFunc("POST /api/progress/reset", h.handleResetAccount)

	mux.HandleFunc("GET /api/report/cycles", h.handleGetCycles)
	mux.HandleFunc("GET /api/report/cycles/{cycle}", h.handleGetCycle)
}

func (h *Handler) handleHealth(w http.ResponseWriter, _ *http.Request) {
	_ = commonhttputil.WriteJSON(w, http.StatusOK, health.Get(h.store.BackendName(), h.store.Loaded()))
}

func (h *Handler) handleGetProgress(w http.ResponseWriter, _ *http.Request) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.writeProgress(w, "get_progress_failed")
}

func (h *Handler) handleRecordStage(w http.ResponseWriter, r *http.Request) {
	var req StageResultRequest
	if !h.decode(w, r, &req) {
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if err := h.store.RecordStageResult(*req.GameIndex, *req.StageIndex, req.outcome()); err != nil {
		respondError(w, err, "record_stage_failed", h.logger)
		return
	}
	h.writeProgress(w, "record_stage_failed")
}

func (h *Handler) handleSetResume(w http.ResponseWriter, r *http.Request) {
	var req ResumeRequest
	if !h.decode(w, r, &req) {
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if err := h.store.SetResumePoint(*req.GameIndex, *req.StageIndex); err != nil {
		respondError(w, err, "set_resume_failed", h.logger)
		return
	}
	h.writeProgress(w, "set_resume_failed")
}

func (h *Handler) handleUpdatePlayer(w http.ResponseWriter, r *http.Request) {
	var req PlayerRequest
	if !h.decode(w, r, &req) {
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if req.PlayerName != nil {
		if err := h.store.SetPlayerName(*req.PlayerName); err != nil {
			respondError(w, err, "update_player_failed", h.logger)
			return
		}
	}
	if req.SelectedCharacter != nil {
		if err := h.store.SetSelectedCharacter(*req.SelectedCharacter); err != nil {
			respondError(w, err, "update_player_failed", h.logger)
			return
		}
	}
	h.writeProgress(w, "update_player_failed")
}

func (h *Handler) handleOpenGame(w http.ResponseWriter, r *http.Request) {
	gameIndex, err := strconv.Atoi(strings.TrimSpace(r.PathValue("gameIndex")))
	if err != nil {
		_ = commonhttputil.WriteErrorJSON(w, http.StatusBadRequest, apiErrorInvalidRequest, "invalid game index")
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if err := h.store.MarkGameOpened(gameIndex); err != nil {
		respondError(w, err, "open_game_failed", h.logger)
		return
	}
	h.writeProgress(w, "open_game_failed")
}

func (h *Handler) handleAdvanceCycle(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	defer h.mu.Unlock()

	archived, err := h.archive.AdvanceCycle(r.Context())
	if err != nil {
		respondError(w, err, "advance_cycle_failed", h.logger)
		return
	}
	_ = commonhttputil.WriteJSON(w, http.StatusOK, AdvanceCycleResponse{
		Archived:     archived,
		CurrentCycle: h.store.Profile().CurrentCycle,
	})
}

// handleSave: 현재 상태를 저장하고 쓰기 완료까지 기다린다. 저장 중에도 변이는 막지 않는다.
func (h *Handler) handleSave(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), saveWaitTimeout)
	defer cancel()

	if err := h.store.Save(ctx); err != nil {
		respondError(w, err, "save_progress_failed", h.logger)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleReload: 원격 Load 동안에는 h.mu를 잡지 않는다. 응답 렌더링 때만 잡는다.
func (h *Handler) handleReload(w http.ResponseWriter, r *http.Request) {
	if err := h.store.Load(r.Context()); err != nil {
		respondError(w, err, "reload_progress_failed", h.logger)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	h.writeProgress(w, "reload_progress_failed")
}

// handleResetAccount: 원격 키를 지우고 기본 프로필로 되돌린다. 삭제 중에는 다른 변이를 막는다.
func (h *Handler) handleResetAccount(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), saveWaitTimeout)
	defer cancel()

	h.mu.Lock()
	defer h.mu.Unlock()

	if err := h.store.ResetAccount(ctx); err != nil {
		respondError(w, err, "reset_account_failed", h.logger)
		return
	}
	h.writeProgress(w, "reset_account_failed")
}

func (h *Handler) handleGetCycles(w http.ResponseWriter, _ *http.Request) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if !h.store.Loaded() {
		respondError(w, service.ErrProfileNotLoaded, "get_cycles_failed", h.logger)
		return
	}
	_ = commonhttputil.WriteJSON(w, http.StatusOK, CyclesResponse{Cycles: h.reporter.GetCycles()})
}

func (h *Handler) handleGetCycle(w http.ResponseWriter, r *http.Request) {
	cycle, err := strconv.Atoi(strings.TrimSpace(r.PathValue("cycle")))
	if err != nil || cycle < 1 {
		_ = commonhttputil.WriteErrorJSON(w, http.StatusBadRequest, apiErrorInvalidRequest, "invalid cycle number")
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if !h.store.Loaded() {
		respondError(w, service.ErrProfileNotLoaded, "get_cycle_failed", h.logger)
		return
	}
	view, ok := h.reporter.GetCycle(cycle)
	if !ok {
		_ = commonhttputil.WriteErrorJSON(w, http.StatusNotFound, apiErrorNotFound, "cycle "+strconv.Itoa(cycle)+" not found")
		return
	}
	_ = commonhttputil.WriteJSON(w, http.StatusOK, view)
}

// decode: 요청 바디를 읽고 검증한다. 실패하면 응답을 쓰고 false를 반환한다.
func (h *Handler) decode(w http.ResponseWriter, r *http.Request, out any) bool {
	if err := commonhttputil.ReadJSON(r, out, progressconfig.MaxRequestBodyBytes); err != nil {
		_ = commonhttputil.WriteErrorJSON(w, http.StatusBadRequest, apiErrorInvalidRequest, err.Error())
		return false
	}
	if err := h.validate.Struct(out); err != nil {
		respondError(w, err, "request_validation_failed", h.logger)
		return false
	}
	return true
}

// writeProgress: 현재 프로필을 응답으로 쓴다. h.mu를 잡은 상태에서 호출한다.
func (h *Handler) writeProgress(w http.ResponseWriter, logEvent string) {
	p := h.store.Profile()
	if p == nil {
		respondError(w, service.ErrProfileNotLoaded, logEvent, h.logger)
		return
	}

	var games []report.GameView
	if cycles := h.reporter.GetCycles(); len(cycles) > 0 {
		games = cycles[len(cycles)-1].Games
	}

	_ = commonhttputil.WriteJSON(w, http.StatusOK, ProgressResponse{
		PlayerName:           p.PlayerName,
		SelectedCharacter:    p.SelectedCharacter,
		TotalScore:           p.TotalScore,
		CurrentCycle:         p.CurrentCycle,
		CurrentCycleStart:    p.CurrentCycleStart,
		HasActivityThisCycle: p.HasActivityThisCycle,
		LastPlayed:           toResumePoint(p.LastPlayed, true),
		ResumeTarget:         toResumePoint(p.ResumeTarget()),
		ArchivedCycles:       len(p.CycleHistory),
		Games:                games,
	})
}
