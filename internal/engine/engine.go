package engine

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/sman1la/tatib-bot/internal/models"
	"github.com/sman1la/tatib-bot/internal/service"
	"github.com/sman1la/tatib-bot/internal/session"
	"github.com/sman1la/tatib-bot/pkg/config"
	apperrors "github.com/sman1la/tatib-bot/pkg/errors"
)

// Flow names used for outcome metrics.
const (
	flowRecord = "record"
	flowLookup = "lookup"
	flowExport = "export"
)

// Engine drives the conversation. One Handle call consumes one event and
// produces one prompt; all state lives in the session store, so concurrent
// users never interfere and a lost session simply means starting over.
type Engine struct {
	cfg         *config.Config
	sessions    session.Store
	roster      *service.RosterService
	infractions *service.InfractionService
	reports     *service.ReportService
	metrics     *service.MetricsService
	now         func() time.Time
	logger      *zap.Logger
}

// New constructs the engine. now may be nil, in which case the wall clock
// is used; metrics may be nil to disable outcome counting.
func New(
	cfg *config.Config,
	sessions session.Store,
	roster *service.RosterService,
	infractions *service.InfractionService,
	reports *service.ReportService,
	metrics *service.MetricsService,
	now func() time.Time,
	logger *zap.Logger,
) *Engine {
	if now == nil {
		now = time.Now
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{
		cfg:         cfg,
		sessions:    sessions,
		roster:      roster,
		infractions: infractions,
		reports:     reports,
		metrics:     metrics,
		now:         now,
		logger:      logger,
	}
}

// Handle consumes one event for one user and returns the prompt to show.
// Failures are translated into user-facing prompts here; the transport
// never sees an error.
func (e *Engine) Handle(ctx context.Context, userID int64, ev Event) Prompt {
	switch ev.Kind {
	case KindCommand:
		return e.handleCommand(ctx, userID, ev.Command)
	case KindCallback:
		return e.handleCallback(ctx, userID, ev.Callback)
	case KindText:
		return e.handleText(ctx, userID, ev.Text)
	case KindPhoto:
		return e.handlePhoto(ctx, userID, ev.PhotoPath)
	default:
		return e.mainMenu()
	}
}

func (e *Engine) handleCommand(ctx context.Context, userID int64, command string) Prompt {
	switch command {
	case CmdStart, CmdMenu:
		e.reset(ctx, userID)
		return e.mainMenuFor(ctx, userID)
	case CmdCancel, "cancel":
		e.reset(ctx, userID)
		return Prompt{
			Text:    "❌ Proses dibatalkan.",
			Buttons: [][]Button{row(btn("🏠 Menu Utama", ActionMenu, MenuMain))},
		}
	case CmdHelp:
		return Prompt{
			Text:    helpText(),
			Buttons: [][]Button{row(btn("🏠 Menu Utama", ActionMenu, MenuMain))},
		}
	default:
		return Prompt{Text: "Perintah tidak dikenal. Gunakan /start untuk membuka menu."}
	}
}

func (e *Engine) handleCallback(ctx context.Context, userID int64, cb Callback) Prompt {
	switch cb.Action {
	case ActionMenu:
		return e.handleMenu(ctx, userID, cb.Value)
	case ActionTier:
		return e.handleTier(ctx, userID, cb.Value)
	case ActionClass:
		return e.handleClass(ctx, userID, cb.Value)
	case ActionStudent:
		return e.handleStudent(ctx, userID, cb.Value)
	case ActionType:
		return e.handleType(ctx, userID, cb.Value)
	case ActionConfirm:
		return e.handleConfirm(ctx, userID, cb.Value)
	case ActionBack:
		return e.handleBack(ctx, userID, cb.Value)
	case ActionExport:
		return e.exportFor(ctx, cb.Value)
	default:
		return e.stalePrompt()
	}
}

func (e *Engine) handleMenu(ctx context.Context, userID int64, target string) Prompt {
	switch target {
	case MenuRecord:
		entry, err := e.roster.Authorize(ctx, userID)
		if apperrors.Is(err, apperrors.ErrUnauthorized) {
			e.observeOutcome(flowRecord, "unauthorized")
			return Prompt{Text: "⛔ Maaf, fitur ini hanya untuk petugas tata tertib yang terdaftar."}
		}
		if err != nil {
			e.logger.Error("authorization check failed", zap.Int64("user_id", userID), zap.Error(err))
			return e.errorPrompt()
		}
		e.save(ctx, &models.Session{
			UserID:    userID,
			Stage:     models.StageSelectTier,
			AdminName: entry.FullName,
		})
		return e.tierPrompt()
	case MenuLookup:
		e.save(ctx, &models.Session{UserID: userID, Stage: models.StageAwaitLookupID})
		return Prompt{Text: "🔍 Kirim NIS siswa yang ingin dicek:"}
	case MenuExport:
		e.save(ctx, &models.Session{UserID: userID, Stage: models.StageAwaitExportID})
		return Prompt{Text: "📄 Kirim NIS siswa untuk mengunduh laporan PDF:"}
	case MenuHelp:
		return Prompt{
			Text:    helpText(),
			Buttons: [][]Button{row(btn("🏠 Menu Utama", ActionMenu, MenuMain))},
		}
	case MenuMain:
		e.reset(ctx, userID)
		return e.mainMenuFor(ctx, userID)
	default:
		return e.stalePrompt()
	}
}

func (e *Engine) handleTier(ctx context.Context, userID int64, tier string) Prompt {
	sess := e.load(ctx, userID)
	if sess.Stage != models.StageSelectTier {
		return e.stalePrompt()
	}
	if !validTier(tier) {
		return e.stalePrompt()
	}
	sess.Tier = tier
	sess.Stage = models.StageSelectClass
	e.save(ctx, sess)
	return e.classPrompt(tier)
}

func (e *Engine) handleClass(ctx context.Context, userID int64, classLabel string) Prompt {
	sess := e.load(ctx, userID)
	if sess.Stage != models.StageSelectClass {
		return e.stalePrompt()
	}

	students, err := e.roster.ClassStudents(ctx, classLabel)
	if apperrors.Is(err, apperrors.ErrNoData) {
		prompt := e.classPrompt(sess.Tier)
		prompt.Text = "📭 Kelas " + classLabel + " belum memiliki data siswa.\n\n" + prompt.Text
		return prompt
	}
	if err != nil {
		e.logger.Error("class listing failed", zap.String("class", classLabel), zap.Error(err))
		e.reset(ctx, userID)
		return e.errorPrompt()
	}

	sess.ClassLabel = classLabel
	sess.Stage = models.StageSelectStudent
	e.save(ctx, sess)
	return e.studentPrompt(classLabel, students)
}

func (e *Engine) handleStudent(ctx context.Context, userID int64, nis string) Prompt {
	sess := e.load(ctx, userID)
	if sess.Stage != models.StageSelectStudent {
		return e.stalePrompt()
	}

	student, err := e.roster.FindStudent(ctx, nis)
	if err != nil {
		e.logger.Error("student resolve failed", zap.String("nis", nis), zap.Error(err))
		e.reset(ctx, userID)
		return e.errorPrompt()
	}

	types, err := e.infractions.Catalog(ctx)
	if apperrors.Is(err, apperrors.ErrNoData) {
		// nothing to pick from; stay on student selection
		students, listErr := e.roster.ClassStudents(ctx, sess.ClassLabel)
		if listErr != nil {
			e.reset(ctx, userID)
			return e.errorPrompt()
		}
		prompt := e.studentPrompt(sess.ClassLabel, students)
		prompt.Text = "📭 Daftar jenis pelanggaran masih kosong.\n\n" + prompt.Text
		return prompt
	}
	if err != nil {
		e.logger.Error("catalog read failed", zap.Error(err))
		e.reset(ctx, userID)
		return e.errorPrompt()
	}

	sess.Student = student
	sess.Stage = models.StageSelectInfraction
	e.save(ctx, sess)
	return e.typePrompt(student, types)
}

func (e *Engine) handleType(ctx context.Context, userID int64, code string) Prompt {
	sess := e.load(ctx, userID)
	if sess.Stage != models.StageSelectInfraction || sess.Student == nil {
		return e.stalePrompt()
	}

	typ, err := e.infractions.Resolve(ctx, code)
	if err != nil {
		e.logger.Error("infraction type resolve failed", zap.String("code", code), zap.Error(err))
		e.reset(ctx, userID)
		return e.errorPrompt()
	}

	priorTime, found, err := e.infractions.CheckDuplicate(ctx, sess.Student.NIS, code, e.now())
	if err != nil {
		e.logger.Error("duplicate scan failed", zap.String("nis", sess.Student.NIS), zap.Error(err))
		e.reset(ctx, userID)
		return e.errorPrompt()
	}

	sess.Infraction = typ
	if found {
		sess.PriorTime = priorTime
		sess.Stage = models.StageDuplicateConfirm
		e.save(ctx, sess)
		return Prompt{
			Text: duplicateWarning(sess.Student, typ, priorTime),
			Buttons: [][]Button{row(
				btn("✅ Ya, catat", ActionConfirm, "yes"),
				btn("❌ Tidak", ActionConfirm, "no"),
			)},
		}
	}

	sess.Stage = models.StageAwaitEvidence
	e.save(ctx, sess)
	return e.evidencePrompt(sess)
}

func (e *Engine) handleConfirm(ctx context.Context, userID int64, answer string) Prompt {
	sess := e.load(ctx, userID)
	if sess.Stage != models.StageDuplicateConfirm {
		return e.stalePrompt()
	}

	// declining cancels the whole flow; nothing has been written yet
	if answer != "yes" {
		e.reset(ctx, userID)
		e.observeOutcome(flowRecord, "declined")
		return Prompt{
			Text:    "❌ Pencatatan dibatalkan.",
			Buttons: [][]Button{row(btn("🏠 Menu Utama", ActionMenu, MenuMain))},
		}
	}

	sess.PriorTime = ""
	sess.Stage = models.StageAwaitEvidence
	e.save(ctx, sess)
	return e.evidencePrompt(sess)
}

func (e *Engine) handleBack(ctx context.Context, userID int64, target string) Prompt {
	sess := e.load(ctx, userID)
	switch target {
	case "tier":
		if sess.Stage != models.StageSelectClass {
			return e.stalePrompt()
		}
		sess.Tier = ""
		sess.Stage = models.StageSelectTier
		e.save(ctx, sess)
		return e.tierPrompt()
	case "class":
		if sess.Stage != models.StageSelectStudent || sess.Tier == "" {
			return e.stalePrompt()
		}
		sess.ClassLabel = ""
		sess.Stage = models.StageSelectClass
		e.save(ctx, sess)
		return e.classPrompt(sess.Tier)
	default:
		return e.stalePrompt()
	}
}

func (e *Engine) handleText(ctx context.Context, userID int64, text string) Prompt {
	sess := e.load(ctx, userID)
	input := strings.TrimSpace(text)

	switch sess.Stage {
	case models.StageAwaitLookupID:
		history, err := e.infractions.History(ctx, input)
		if apperrors.Is(err, apperrors.ErrNotFound) {
			return Prompt{Text: "❓ Siswa dengan NIS " + input + " tidak ditemukan.\nKirim NIS lain atau /batal untuk keluar."}
		}
		if err != nil {
			e.logger.Error("history lookup failed", zap.String("nis", input), zap.Error(err))
			e.reset(ctx, userID)
			e.observeOutcome(flowLookup, "error")
			return e.errorPrompt()
		}
		e.reset(ctx, userID)
		e.observeOutcome(flowLookup, "success")
		return Prompt{
			Text: studentCard(history),
			Buttons: [][]Button{
				row(btn("📄 Unduh Laporan PDF", ActionExport, history.Student.NIS)),
				row(btn("🏠 Menu Utama", ActionMenu, MenuMain)),
			},
		}

	case models.StageAwaitExportID:
		// one shot: the flow ends whether the export succeeds or not
		e.reset(ctx, userID)
		return e.exportFor(ctx, input)

	case models.StageAwaitEvidence:
		return Prompt{Text: "📸 Kirim *foto* bukti pelanggaran, bukan teks."}

	case models.StageIdle:
		return e.mainMenu()

	default:
		return Prompt{Text: "Gunakan tombol di atas untuk melanjutkan, atau /batal untuk membatalkan."}
	}
}

func (e *Engine) handlePhoto(ctx context.Context, userID int64, photoPath string) Prompt {
	sess := e.load(ctx, userID)
	if sess.Stage != models.StageAwaitEvidence || sess.Student == nil || sess.Infraction == nil {
		return Prompt{Text: "Foto diterima, tetapi tidak ada pencatatan yang sedang berjalan. Gunakan /start."}
	}

	record, err := e.infractions.Submit(ctx, service.Submission{
		Student:    *sess.Student,
		Infraction: *sess.Infraction,
		PhotoPath:  photoPath,
		Officer:    sess.AdminName,
	})
	e.reset(ctx, userID)
	if apperrors.Is(err, apperrors.ErrStorageUnavailable) {
		e.observeOutcome(flowRecord, "storage_unavailable")
		return Prompt{
			Text:    "⚠️ Gagal mengunggah foto bukti. Tidak ada data yang tersimpan; silakan ulangi pencatatan.",
			Buttons: [][]Button{row(btn("🏠 Menu Utama", ActionMenu, MenuMain))},
		}
	}
	if apperrors.Is(err, apperrors.ErrPersistenceFailure) {
		e.observeOutcome(flowRecord, "persistence_failure")
		return Prompt{
			Text:    "⚠️ Foto bukti tersimpan tetapi pencatatan gagal. Silakan ulangi pencatatan.",
			Buttons: [][]Button{row(btn("🏠 Menu Utama", ActionMenu, MenuMain))},
		}
	}
	if err != nil {
		e.observeOutcome(flowRecord, "error")
		return e.errorPrompt()
	}

	e.observeOutcome(flowRecord, "success")

	// Best effort: show the updated total. The record itself is already
	// safely appended even when this read fails.
	text := "✅ Pelanggaran tercatat."
	if history, histErr := e.infractions.History(ctx, record.NIS); histErr == nil {
		text = submitSuccess(record, history, e.now())
	}
	return Prompt{
		Text:    text,
		Buttons: [][]Button{row(btn("🏠 Menu Utama", ActionMenu, MenuMain))},
	}
}

func (e *Engine) exportFor(ctx context.Context, nis string) Prompt {
	artifact, err := e.reports.Generate(ctx, nis)
	if apperrors.Is(err, apperrors.ErrNotFound) {
		e.observeOutcome(flowExport, "not_found")
		return Prompt{
			Text:    "❓ Siswa dengan NIS " + nis + " tidak ditemukan.",
			Buttons: [][]Button{row(btn("🏠 Menu Utama", ActionMenu, MenuMain))},
		}
	}
	if apperrors.Is(err, apperrors.ErrRenderFailure) {
		e.observeOutcome(flowExport, "render_failure")
		return Prompt{
			Text:    "⚠️ Gagal membuat laporan PDF. Coba lagi nanti.",
			Buttons: [][]Button{row(btn("🏠 Menu Utama", ActionMenu, MenuMain))},
		}
	}
	if err != nil {
		e.logger.Error("report generation failed", zap.String("nis", nis), zap.Error(err))
		e.observeOutcome(flowExport, "error")
		return e.errorPrompt()
	}
	e.observeOutcome(flowExport, "success")
	return Prompt{
		Document: artifact,
		Buttons:  [][]Button{row(btn("🏠 Menu Utama", ActionMenu, MenuMain))},
	}
}

// --- prompts ---

// mainMenuFor greets admins by name so they can tell the recording
// capability is available to them.
func (e *Engine) mainMenuFor(ctx context.Context, userID int64) Prompt {
	prompt := e.mainMenu()
	if entry, err := e.roster.Authorize(ctx, userID); err == nil {
		prompt.Text += "\n\n👮 Anda masuk sebagai petugas: *" + entry.FullName + "*"
	}
	return prompt
}

func (e *Engine) mainMenu() Prompt {
	return Prompt{
		Text: welcomeText(e.cfg.School.Name),
		Buttons: [][]Button{
			row(btn("📝 Catat Pelanggaran", ActionMenu, MenuRecord)),
			row(btn("🔍 Cek Riwayat", ActionMenu, MenuLookup)),
			row(btn("📄 Laporan PDF", ActionMenu, MenuExport)),
			row(btn("ℹ️ Bantuan", ActionMenu, MenuHelp)),
		},
	}
}

func (e *Engine) tierPrompt() Prompt {
	buttons := make([]Button, 0, len(config.Tiers))
	for _, tier := range config.Tiers {
		buttons = append(buttons, btn("Kelas "+tier, ActionTier, tier))
	}
	return Prompt{
		Text:    "🏷 Pilih tingkat kelas:",
		Buttons: [][]Button{buttons},
	}
}

func (e *Engine) classPrompt(tier string) Prompt {
	sections := e.cfg.ClassSections(tier)
	rows := make([][]Button, 0, len(sections)/3+2)
	var current []Button
	for _, label := range sections {
		current = append(current, btn(label, ActionClass, label))
		if len(current) == 3 {
			rows = append(rows, current)
			current = nil
		}
	}
	if len(current) > 0 {
		rows = append(rows, current)
	}
	rows = append(rows, row(btn("⬅️ Kembali", ActionBack, "tier")))
	return Prompt{
		Text:    "🏫 Pilih kelas:",
		Buttons: rows,
	}
}

func (e *Engine) studentPrompt(classLabel string, students []models.Student) Prompt {
	rows := make([][]Button, 0, len(students)+1)
	for _, s := range students {
		rows = append(rows, row(btn(s.FullName, ActionStudent, s.NIS)))
	}
	rows = append(rows, row(btn("⬅️ Kembali", ActionBack, "class")))
	return Prompt{
		Text:    "🧑‍🎓 Pilih siswa dari kelas " + classLabel + ":",
		Buttons: rows,
	}
}

func (e *Engine) typePrompt(student *models.Student, types []models.InfractionType) Prompt {
	rows := make([][]Button, 0, len(types))
	for _, t := range types {
		label := t.Code + " - " + t.Description
		rows = append(rows, row(btn(label, ActionType, t.Code)))
	}
	return Prompt{
		Text:    "📋 Pilih jenis pelanggaran untuk *" + student.FullName + "*:",
		Buttons: rows,
	}
}

func (e *Engine) evidencePrompt(sess *models.Session) Prompt {
	return Prompt{
		Text: "📸 Kirim foto bukti pelanggaran *" + sess.Infraction.Description +
			"* oleh *" + sess.Student.FullName + "*.\n\nGunakan /batal untuk membatalkan.",
	}
}

func (e *Engine) stalePrompt() Prompt {
	return Prompt{
		Text:    "⏳ Tombol ini sudah tidak berlaku. Gunakan /start untuk memulai lagi.",
		Buttons: [][]Button{row(btn("🏠 Menu Utama", ActionMenu, MenuMain))},
	}
}

func (e *Engine) errorPrompt() Prompt {
	return Prompt{
		Text:    "⚠️ Terjadi kesalahan. Silakan coba lagi nanti.",
		Buttons: [][]Button{row(btn("🏠 Menu Utama", ActionMenu, MenuMain))},
	}
}

// --- session helpers ---

func (e *Engine) load(ctx context.Context, userID int64) *models.Session {
	sess, err := e.sessions.Get(ctx, userID)
	if errors.Is(err, session.ErrNotFound) {
		return &models.Session{UserID: userID, Stage: models.StageIdle}
	}
	if err != nil {
		e.logger.Warn("session read failed, treating as idle", zap.Int64("user_id", userID), zap.Error(err))
		return &models.Session{UserID: userID, Stage: models.StageIdle}
	}
	return sess
}

func (e *Engine) save(ctx context.Context, sess *models.Session) {
	if err := e.sessions.Put(ctx, sess); err != nil {
		e.logger.Error("session write failed", zap.Int64("user_id", sess.UserID), zap.Error(err))
	}
}

func (e *Engine) reset(ctx context.Context, userID int64) {
	if err := e.sessions.Delete(ctx, userID); err != nil {
		e.logger.Warn("session delete failed", zap.Int64("user_id", userID), zap.Error(err))
	}
}

func (e *Engine) observeOutcome(flow, outcome string) {
	if e.metrics != nil {
		e.metrics.ObserveOutcome(flow, outcome)
	}
}

func validTier(tier string) bool {
	for _, t := range config.Tiers {
		if t == tier {
			return true
		}
	}
	return false
}
