package project

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"factoryfloor/internal/domain"
	"factoryfloor/internal/modules/floor"
	"factoryfloor/internal/modules/status"
	"factoryfloor/internal/pkg/utils"
	"factoryfloor/internal/pkg/validator"
)

// Config carries the filesystem and ERP settings of the service.
type Config struct {
	UploadsDir     string
	MaxUploadBytes int64
	WorkCenter     string
}

type Service struct {
	owners   OwnershipChecker
	notes    NotesRepository
	dni      DniStatusRepository
	photos   PhotoRepository
	parts    PartsRepository
	statuses WorkOrderStatuses
	cfg      Config
	log      *zap.Logger
	now      func() time.Time
}

func NewService(
	owners OwnershipChecker,
	notes NotesRepository,
	dni DniStatusRepository,
	photos PhotoRepository,
	parts PartsRepository,
	statuses WorkOrderStatuses,
	cfg Config,
	log *zap.Logger,
) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		owners:   owners,
		notes:    notes,
		dni:      dni,
		photos:   photos,
		parts:    parts,
		statuses: statuses,
		cfg:      cfg,
		log:      log,
		now:      time.Now,
	}
}

func (s *Service) timestamp() string {
	return s.now().UTC().Format(time.RFC3339Nano)
}

func (s *Service) SetPriority(ctx context.Context, actor domain.Actor, projectID, priority string) error {
	if err := s.owners.CheckOwnership(ctx, actor, projectID, floor.Permissive); err != nil {
		return err
	}
	if !validator.Var(priority, domain.PriorityRule) {
		return domain.Validationf("Invalid priority")
	}
	return s.notes.SetFields(ctx, projectID, map[string]any{"priority": priority})
}

// SetPause sets or, with a nil reason, clears the pause of a project.
func (s *Service) SetPause(ctx context.Context, actor domain.Actor, projectID string, reason *string) error {
	if err := s.owners.CheckOwnership(ctx, actor, projectID, floor.Permissive); err != nil {
		return err
	}
	if reason != nil && !validator.Var(*reason, domain.PauseReasonRule) {
		return domain.Validationf("Invalid pause reason")
	}
	return s.notes.SetFields(ctx, projectID, map[string]any{"pause_status": reason})
}

// SetDniStatus records the manual completion flag of a work order. The
// automatic flag from the time clock is never touched.
func (s *Service) SetDniStatus(ctx context.Context, actor domain.Actor, workOrderNo string, req DniStatusRequest) error {
	if req.ProjectTaskNo == "" {
		return domain.Validationf("Missing project_task_no")
	}
	if workOrderNo == "" {
		return domain.Validationf("Missing work order")
	}
	if err := s.owners.CheckOwnership(ctx, actor, req.ProjectTaskNo, floor.Permissive); err != nil {
		return err
	}
	err := s.dni.Save(ctx, domain.DniStatus{
		WorkOrderNo:   workOrderNo,
		ProjectTaskNo: req.ProjectTaskNo,
		Description:   req.Description,
		IsCompleted:   req.Completed,
	}, s.timestamp())
	if err != nil {
		return err
	}
	s.log.Info("manual work order status updated",
		zap.String("work_order", workOrderNo),
		zap.String("project", req.ProjectTaskNo),
		zap.Bool("completed", req.Completed),
		zap.String("actor", actor.Username))
	return nil
}

func (s *Service) SaveNotes(ctx context.Context, actor domain.Actor, projectID string, noteType domain.NoteType, content string) error {
	if err := s.owners.CheckOwnership(ctx, actor, projectID, floor.Permissive); err != nil {
		return err
	}
	if !validator.Var(string(noteType), domain.NoteTypeRule) {
		return domain.Validationf("Invalid note type")
	}
	return s.notes.SetFields(ctx, projectID, map[string]any{
		string(noteType):       content,
		"last_note_updated_at": s.timestamp(),
	})
}

// MarkReady flags a task as ready to be worked on.
func (s *Service) MarkReady(ctx context.Context, actor domain.Actor, projectID string, task domain.Task) error {
	if !validator.Var(string(task), domain.TaskRule) {
		return domain.Validationf("Invalid task type")
	}
	if err := s.owners.CheckOwnership(ctx, actor, projectID, floor.Permissive); err != nil {
		return err
	}
	return s.notes.SetFields(ctx, projectID, map[string]any{task.StatusColumn(): domain.StatusReady})
}

// CompleteTask stamps the task completed and returns the stamp. A project
// whose two tasks are both complete becomes ready for packaging.
func (s *Service) CompleteTask(ctx context.Context, actor domain.Actor, projectID string, task domain.Task) (string, error) {
	if !validator.Var(string(task), domain.TaskRule) {
		return "", domain.Validationf("Invalid task type")
	}
	if err := s.owners.CheckOwnership(ctx, actor, projectID, floor.Permissive); err != nil {
		return "", err
	}
	ts := s.timestamp()
	if err := s.notes.CompleteTask(ctx, projectID, task, ts); err != nil {
		return "", err
	}
	s.log.Info("task completed",
		zap.String("project", projectID),
		zap.String("task", string(task)),
		zap.String("actor", actor.Username))
	return ts, nil
}

// ResetTask clears the status and completion of a task along with the
// packaging status.
func (s *Service) ResetTask(ctx context.Context, actor domain.Actor, projectID string, task domain.Task) error {
	if !validator.Var(string(task), domain.TaskRule) {
		return domain.Validationf("Invalid task type")
	}
	if err := s.owners.CheckOwnership(ctx, actor, projectID, floor.Permissive); err != nil {
		return err
	}
	return s.notes.ResetTask(ctx, projectID, task)
}

// UploadPhoto stores r under a random name in the project's upload folder
// and records it. The file is removed again when the record cannot be
// written.
func (s *Service) UploadPhoto(ctx context.Context, actor domain.Actor, projectID, filename string, size int64, r io.Reader) (*domain.ProjectPhoto, error) {
	if projectID == "" {
		return nil, domain.Validationf("Missing project")
	}
	if utils.BaseName(filename) == "" {
		return nil, domain.Validationf("No selected file")
	}
	if s.cfg.MaxUploadBytes > 0 && size > s.cfg.MaxUploadBytes {
		return nil, domain.Validationf("File exceeds %d MB limit", s.cfg.MaxUploadBytes>>20)
	}
	if err := s.owners.CheckOwnership(ctx, actor, projectID, floor.Strict); err != nil {
		return nil, err
	}

	dir := filepath.Join(s.cfg.UploadsDir, projectID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	name := strings.ReplaceAll(uuid.NewString(), "-", "") + filepath.Ext(utils.BaseName(filename))
	path := filepath.Join(dir, name)
	if err := saveFile(path, r); err != nil {
		return nil, err
	}

	photo := &domain.ProjectPhoto{ProjectTaskNo: projectID, Filename: name, UploadedAt: s.timestamp()}
	if err := s.photos.Create(ctx, photo); err != nil {
		_ = os.Remove(path)
		return nil, err
	}
	s.log.Info("photo uploaded",
		zap.String("project", projectID),
		zap.String("filename", name),
		zap.String("actor", actor.Username))
	return photo, nil
}

func saveFile(path string, r io.Reader) error {
	dst, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return fmt.Errorf("create photo file: %w", err)
	}
	if _, err := io.Copy(dst, r); err != nil {
		dst.Close()
		_ = os.Remove(path)
		return fmt.Errorf("write photo file: %w", err)
	}
	if err := dst.Close(); err != nil {
		_ = os.Remove(path)
		return fmt.Errorf("close photo file: %w", err)
	}
	return nil
}

// DeletePhoto removes the file if it is still there and then its record.
func (s *Service) DeletePhoto(ctx context.Context, actor domain.Actor, projectID, filename string) error {
	if projectID == "" || filename == "" {
		return domain.Validationf("Missing project or filename")
	}
	if err := s.owners.CheckOwnership(ctx, actor, projectID, floor.Strict); err != nil {
		return err
	}
	err := os.Remove(filepath.Join(s.cfg.UploadsDir, projectID, filename))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove photo file: %w", err)
	}
	if _, err := s.photos.Delete(ctx, projectID, filename); err != nil {
		return err
	}
	return nil
}

func (s *Service) ExtraDetails(ctx context.Context, projectID string) (ExtraDetails, error) {
	n, err := s.notes.Find(ctx, projectID)
	if err != nil {
		return ExtraDetails{}, err
	}
	if n == nil {
		return ExtraDetails{}, nil
	}
	return ExtraDetails{Notes: NoteSet{
		Notes:                deref(n.Notes),
		ElectrificationNotes: deref(n.ElectrificationNotes),
		ControlNotes:         deref(n.ControlNotes),
	}}, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// Photos lists the photos of a project, newest first.
func (s *Service) Photos(ctx context.Context, projectID string) ([]PhotoView, error) {
	rows, err := s.photos.ListByProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	out := make([]PhotoView, 0, len(rows))
	for _, p := range rows {
		out = append(out, PhotoView{
			URL:        utils.PhotoURL(projectID, p.Filename),
			Filename:   p.Filename,
			UploadedAt: p.UploadedAt,
		})
	}
	return out, nil
}

func (s *Service) WorkOrders(ctx context.Context, projectID string) ([]status.WorkOrderStatus, error) {
	return s.statuses.WorkOrders(ctx, projectID)
}

func (s *Service) MissingParts(ctx context.Context, projectID string) ([]domain.MissingPart, error) {
	return s.parts.MissingParts(ctx, projectID, s.cfg.WorkCenter)
}

func (s *Service) ArrivedParts(ctx context.Context, projectID string) ([]domain.ArrivedPart, error) {
	return s.parts.ArrivedParts(ctx, projectID, s.cfg.WorkCenter)
}

func (s *Service) DetailedMissingParts(ctx context.Context, projectID string) ([]domain.DetailedPart, error) {
	return s.parts.DetailedMissingParts(ctx, projectID, s.cfg.WorkCenter)
}

func (s *Service) DetailedArrivedParts(ctx context.Context, projectID string) ([]domain.DetailedPart, error) {
	return s.parts.DetailedArrivedParts(ctx, projectID, s.cfg.WorkCenter)
}

// InventoryStatus reports per work order of the assembly center whether it
// can be made: true only when every component booked on the center has
// stock. Any store failure yields an empty result.
func (s *Service) InventoryStatus(ctx context.Context, projectID string) map[string]InventoryStatus {
	out := map[string]InventoryStatus{}

	comps, err := s.parts.Components(ctx, projectID, s.cfg.WorkCenter)
	if err != nil {
		s.log.Warn("inventory status: components unavailable", zap.String("project", projectID), zap.Error(err))
		return out
	}
	canBeMade := true
	for _, c := range comps {
		if !c.Inventory.Positive() {
			canBeMade = false
			break
		}
	}

	wos, err := s.parts.WorkOrdersForProject(ctx, projectID, s.cfg.WorkCenter)
	if err != nil {
		s.log.Warn("inventory status: work orders unavailable", zap.String("project", projectID), zap.Error(err))
		return map[string]InventoryStatus{}
	}
	for _, wo := range wos {
		out[wo.WorkOrderNo] = InventoryStatus{CanBeMade: canBeMade, Description: wo.Description}
	}
	return out
}
