package service

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"time"

	"github.com/haierkeys/fast-note-keeper/internal/domain"
	"github.com/haierkeys/fast-note-keeper/internal/dto"
	"github.com/haierkeys/fast-note-keeper/pkg/app"
	"github.com/haierkeys/fast-note-keeper/pkg/code"
	"github.com/haierkeys/fast-note-keeper/pkg/convert"
	"github.com/haierkeys/fast-note-keeper/pkg/logger"
	"github.com/haierkeys/fast-note-keeper/pkg/timex"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// NoteService 定义笔记业务服务接口
type NoteService interface {
	// Create 创建笔记
	Create(ctx context.Context, params *dto.NoteSetRequest) (*dto.NoteDTO, error)

	// Set creates a note when params.ID is empty, otherwise upserts by id
	// Set 无 id 时创建笔记，否则按 id 新增或替换
	Set(ctx context.Context, params *dto.NoteSetRequest) (*dto.NoteDTO, bool, error)

	// Update 按 slug 编辑活动笔记
	Update(ctx context.Context, params *dto.NoteUpdateRequest) (*dto.NoteDTO, error)

	// SetActive replaces the active note with the same id in place, or appends it
	// SetActive 按 id 原位替换活动笔记，不存在则追加
	SetActive(ctx context.Context, note *domain.Note) (replaced bool, err error)

	// Delete 按 slug 删除第一条匹配的活动笔记
	Delete(ctx context.Context, slug string) (*dto.NoteDTO, error)

	// Archive 将活动笔记移入归档
	Archive(ctx context.Context, slug string) (*dto.NoteDTO, error)

	// Unarchive 将归档笔记恢复到活动列表末尾
	Unarchive(ctx context.Context, slug string) (*dto.NoteDTO, error)

	// Get 按 slug 获取活动笔记
	Get(ctx context.Context, slug string) (*dto.NoteDTO, error)

	// ListActive 活动笔记列表，按存储顺序分页
	ListActive(ctx context.Context, pager *app.Pager) ([]*dto.NoteDTO, int, error)

	// ListArchive 归档笔记列表，按存储顺序分页
	ListArchive(ctx context.Context, pager *app.Pager) ([]*dto.NoteDTO, int, error)

	// Summary 分类统计
	Summary(ctx context.Context) ([]*dto.CategorySummaryDTO, error)

	// Categories 配置的分类
	Categories() []string

	// Snapshot 返回状态的深拷贝
	Snapshot(ctx context.Context) (domain.NotesState, error)

	// Subscribe 注册事件订阅者
	Subscribe(fn NoteSubscriber)
}

// noteService 实现 NoteService 接口
type noteService struct {
	repo   domain.NoteStateRepository
	config *NoteServiceConfig
	logger *zap.Logger
	sf     *singleflight.Group
	now    func() time.Time

	// mu 保护 state/loaded；写操作持写锁直到持久化并替换完成
	mu     sync.RWMutex
	state  domain.NotesState
	loaded bool
	// seq 已提交变更的序号，在写锁内递增
	seq uint64

	subMu       sync.RWMutex
	subscribers []NoteSubscriber
}

// NewNoteService 创建 NoteService 实例
func NewNoteService(repo domain.NoteStateRepository, config *NoteServiceConfig, logger *zap.Logger) NoteService {
	if config == nil {
		config = &NoteServiceConfig{}
	}
	if len(config.Categories) == 0 {
		config.Categories = append([]string(nil), DefaultCategories...)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &noteService{
		repo:   repo,
		config: config,
		logger: logger,
		sf:     &singleflight.Group{},
		now:    time.Now,
	}
}

// domainToDTO 将领域模型转换为 DTO
func (s *noteService) domainToDTO(note *domain.Note) *dto.NoteDTO {
	if note == nil {
		return nil
	}
	return &dto.NoteDTO{
		ID:           note.ID,
		Title:        note.Title,
		Slug:         note.Slug,
		Content:      note.Content,
		Category:     note.Category,
		CreationDate: note.CreationDate,
	}
}

func (s *noteService) listToDTO(list []*domain.Note) []*dto.NoteDTO {
	out := make([]*dto.NoteDTO, 0, len(list))
	for _, n := range list {
		out = append(out, s.domainToDTO(n))
	}
	return out
}

// toForm copies the form fields of a request and applies the default category
// toForm 复制请求中的表单字段并填充默认分类
func (s *noteService) toForm(params any) (domain.NoteForm, error) {
	var form domain.NoteForm
	if err := convert.StructAssign(params, &form); err != nil {
		return form, code.ErrorInvalidParams.WithDetails(err.Error())
	}
	if form.Category == "" {
		form.Category = s.config.Categories[0]
		return form, nil
	}
	for _, c := range s.config.Categories {
		if c == form.Category {
			return form, nil
		}
	}
	return form, code.ErrorNoteCategoryInvalid.WithDetails(form.Category)
}

// load reads both collections once; concurrent first callers share one load
// load 懒加载两个集合，并发的首次调用共享一次加载
func (s *noteService) load(ctx context.Context) error {
	s.mu.RLock()
	loaded := s.loaded
	s.mu.RUnlock()
	if loaded {
		return nil
	}

	_, err, _ := s.sf.Do("load", func() (interface{}, error) {
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.loaded {
			return nil, nil
		}

		active, found, err := s.repo.Load(ctx, domain.StorageKeyActive)
		if err != nil {
			return nil, err
		}
		if !found && s.config.Prepopulate {
			active = domain.SeedNotes()
			s.logger.Info("no stored notes, using demo notes", zap.Int(logger.FieldCount, len(active)))
		}
		archive, _, err := s.repo.Load(ctx, domain.StorageKeyArchive)
		if err != nil {
			return nil, err
		}

		s.state = domain.NotesState{Active: domain.CloneNotes(active), Archive: domain.CloneNotes(archive)}
		s.loaded = true
		return nil, nil
	})
	if err != nil {
		s.logger.Error("load notes failed", zap.String(logger.FieldMethod, "NoteService.load"), zap.Error(err))
		return code.ErrorDBQuery.WithDetails(err.Error())
	}
	return nil
}

// commit persists the changed collections and then swaps them in. Caller holds s.mu.
// commit 先持久化变更的集合再替换内存状态，调用方需持有写锁
func (s *noteService) commit(ctx context.Context, next domain.NotesState, keys ...string) error {
	collections := make(map[string][]*domain.Note, len(keys))
	for _, k := range keys {
		switch k {
		case domain.StorageKeyActive:
			collections[k] = next.Active
		case domain.StorageKeyArchive:
			collections[k] = next.Archive
		}
	}
	if err := s.repo.SaveState(ctx, collections); err != nil {
		s.logger.Error("save notes failed",
			zap.Strings(logger.FieldKey, keys),
			zap.String(logger.FieldMethod, "NoteService.commit"),
			zap.Error(err))
		return code.ErrorNoteSaveFailed.WithDetails(err.Error())
	}
	s.state = next
	return nil
}

func (s *noteService) publish(ctx context.Context, event NoteEvent) {
	s.subMu.RLock()
	subs := s.subscribers
	s.subMu.RUnlock()

	s.logger.Debug("note event",
		zap.String(logger.FieldAction, event.Action),
		zap.String(logger.FieldSlug, event.Slug))

	for _, fn := range subs {
		fn(ctx, event)
	}
}

// Subscribe 注册事件订阅者
func (s *noteService) Subscribe(fn NoteSubscriber) {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	s.subscribers = append(s.subscribers, fn)
}

// noteError 将领域校验错误转换为响应码
func noteError(err error) error {
	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		if verr.DuplicateSlug {
			return code.ErrorNoteSlugExist.WithDetails(verr.Fields...)
		}
		return code.ErrorNoteTitleInvalid.WithDetails(verr.Fields...)
	}
	return code.ErrorServerInternal.WithDetails(err.Error())
}

func notFound(slug string) error {
	return code.ErrorNoteNotFound.WithDetails("no matches found for " + slug)
}

// nextID is unix milliseconds, bumped above every stored id
// nextID 取当前毫秒时间戳，并保证大于已有的所有 id
func (s *noteService) nextID(state domain.NotesState) int64 {
	id := s.now().UnixMilli()
	if maxID := state.MaxID(); id <= maxID {
		id = maxID + 1
	}
	return id
}

// Create 创建笔记
func (s *noteService) Create(ctx context.Context, params *dto.NoteSetRequest) (*dto.NoteDTO, error) {
	req := *params
	req.ID = 0
	note, _, err := s.Set(ctx, &req)
	return note, err
}

// Set 无 id 时创建笔记，否则按 id 新增或替换，保留已有笔记的创建时间
func (s *noteService) Set(ctx context.Context, params *dto.NoteSetRequest) (*dto.NoteDTO, bool, error) {
	form, err := s.toForm(params)
	if err != nil {
		return nil, false, err
	}
	if err := s.load(ctx); err != nil {
		return nil, false, err
	}

	s.mu.Lock()
	id := params.ID
	created := timex.Time(s.now().Truncate(time.Second))
	if id == 0 {
		id = s.nextID(s.state)
	} else if i := domain.IndexByID(s.state.Active, id); i >= 0 {
		created = s.state.Active[i].CreationDate
	}

	note, err := domain.NewNote(s.state.Active, form, id, created)
	if err != nil {
		s.mu.Unlock()
		return nil, false, noteError(err)
	}
	replaced, event, err := s.setActiveLocked(ctx, note)
	s.mu.Unlock()
	if err != nil {
		return nil, false, err
	}

	s.publish(ctx, event)
	return s.domainToDTO(note), replaced, nil
}

// Update 按 slug 编辑活动笔记，保留 id 与创建时间
func (s *noteService) Update(ctx context.Context, params *dto.NoteUpdateRequest) (*dto.NoteDTO, error) {
	form, err := s.toForm(params)
	if err != nil {
		return nil, err
	}
	if err := s.load(ctx); err != nil {
		return nil, err
	}

	s.mu.Lock()
	i := domain.IndexBySlug(s.state.Active, params.Slug)
	if i < 0 {
		s.mu.Unlock()
		return nil, notFound(params.Slug)
	}
	old := s.state.Active[i]

	note, err := domain.NewNote(s.state.Active, form, old.ID, old.CreationDate)
	if err != nil {
		s.mu.Unlock()
		return nil, noteError(err)
	}
	_, event, err := s.setActiveLocked(ctx, note)
	s.mu.Unlock()
	if err != nil {
		return nil, err
	}

	// 推送编辑前的 slug，客户端据此定位原笔记
	event.Slug = params.Slug
	s.publish(ctx, event)
	return s.domainToDTO(note), nil
}

// SetActive 按 id 原位替换活动笔记，不存在则追加
func (s *noteService) SetActive(ctx context.Context, note *domain.Note) (bool, error) {
	if note == nil {
		return false, code.ErrorInvalidParams
	}
	if err := s.load(ctx); err != nil {
		return false, err
	}

	s.mu.Lock()
	replaced, event, err := s.setActiveLocked(ctx, note.Clone())
	s.mu.Unlock()
	if err != nil {
		return false, err
	}
	s.publish(ctx, event)
	return replaced, nil
}

func (s *noteService) setActiveLocked(ctx context.Context, note *domain.Note) (bool, NoteEvent, error) {
	// 同一 id 只能存在于一个集合中
	if domain.IndexByID(s.state.Archive, note.ID) >= 0 {
		return false, NoteEvent{}, code.ErrorNoteIDArchived.WithDetails(strconv.FormatInt(note.ID, 10))
	}
	active, replaced := domain.UpsertByID(s.state.Active, note)
	next := domain.NotesState{Active: active, Archive: s.state.Archive}
	if err := s.commit(ctx, next, domain.StorageKeyActive); err != nil {
		return false, NoteEvent{}, err
	}

	action := NoteActionCreate
	if replaced {
		action = NoteActionUpdate
	}
	return replaced, s.event(action, note), nil
}

// event builds the event of a committed mutation. Caller holds s.mu.
func (s *noteService) event(action string, note *domain.Note) NoteEvent {
	s.seq++
	return NoteEvent{
		Seq:     s.seq,
		Action:  action,
		Slug:    note.Slug,
		Note:    s.domainToDTO(note),
		Active:  len(s.state.Active),
		Archive: len(s.state.Archive),
	}
}

// Delete 按 slug 删除第一条匹配的活动笔记
func (s *noteService) Delete(ctx context.Context, slug string) (*dto.NoteDTO, error) {
	if err := s.load(ctx); err != nil {
		return nil, err
	}

	s.mu.Lock()
	active, removed := domain.RemoveBySlug(s.state.Active, slug)
	if removed == nil {
		s.mu.Unlock()
		return nil, notFound(slug)
	}
	next := domain.NotesState{Active: active, Archive: s.state.Archive}
	if err := s.commit(ctx, next, domain.StorageKeyActive); err != nil {
		s.mu.Unlock()
		return nil, err
	}
	event := s.event(NoteActionDelete, removed)
	s.mu.Unlock()

	s.publish(ctx, event)
	return s.domainToDTO(removed), nil
}

// Archive moves the first active match to the end of the archive; both keys are saved together
// Archive 将第一条匹配的活动笔记移到归档末尾，两个键在同一事务中保存
func (s *noteService) Archive(ctx context.Context, slug string) (*dto.NoteDTO, error) {
	if err := s.load(ctx); err != nil {
		return nil, err
	}

	s.mu.Lock()
	active, removed := domain.RemoveBySlug(s.state.Active, slug)
	if removed == nil {
		s.mu.Unlock()
		return nil, notFound(slug)
	}
	archive := make([]*domain.Note, 0, len(s.state.Archive)+1)
	archive = append(append(archive, s.state.Archive...), removed)

	next := domain.NotesState{Active: active, Archive: archive}
	if err := s.commit(ctx, next, domain.StorageKeyActive, domain.StorageKeyArchive); err != nil {
		s.mu.Unlock()
		return nil, err
	}
	event := s.event(NoteActionArchive, removed)
	s.mu.Unlock()

	s.publish(ctx, event)
	return s.domainToDTO(removed), nil
}

// Unarchive 将第一条匹配的归档笔记恢复到活动列表末尾，活动列表已有同 slug 时拒绝
func (s *noteService) Unarchive(ctx context.Context, slug string) (*dto.NoteDTO, error) {
	if err := s.load(ctx); err != nil {
		return nil, err
	}

	s.mu.Lock()
	archive, restored := domain.RemoveBySlug(s.state.Archive, slug)
	if restored == nil {
		s.mu.Unlock()
		return nil, notFound(slug)
	}
	if domain.IndexBySlug(s.state.Active, slug) >= 0 {
		s.mu.Unlock()
		return nil, code.ErrorNoteSlugExist.WithDetails(slug)
	}
	if domain.IndexByID(s.state.Active, restored.ID) >= 0 {
		s.mu.Unlock()
		return nil, code.ErrorNoteIDArchived.WithDetails(strconv.FormatInt(restored.ID, 10))
	}
	active := make([]*domain.Note, 0, len(s.state.Active)+1)
	active = append(append(active, s.state.Active...), restored)

	next := domain.NotesState{Active: active, Archive: archive}
	if err := s.commit(ctx, next, domain.StorageKeyActive, domain.StorageKeyArchive); err != nil {
		s.mu.Unlock()
		return nil, err
	}
	event := s.event(NoteActionUnarchive, restored)
	s.mu.Unlock()

	s.publish(ctx, event)
	return s.domainToDTO(restored), nil
}

// Get 按 slug 获取活动笔记
func (s *noteService) Get(ctx context.Context, slug string) (*dto.NoteDTO, error) {
	if err := s.load(ctx); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	i := domain.IndexBySlug(s.state.Active, slug)
	if i < 0 {
		return nil, notFound(slug)
	}
	return s.domainToDTO(s.state.Active[i]), nil
}

// ListActive 活动笔记列表
func (s *noteService) ListActive(ctx context.Context, pager *app.Pager) ([]*dto.NoteDTO, int, error) {
	return s.list(ctx, pager, func(st domain.NotesState) []*domain.Note { return st.Active })
}

// ListArchive 归档笔记列表
func (s *noteService) ListArchive(ctx context.Context, pager *app.Pager) ([]*dto.NoteDTO, int, error) {
	return s.list(ctx, pager, func(st domain.NotesState) []*domain.Note { return st.Archive })
}

func (s *noteService) list(ctx context.Context, pager *app.Pager, pick func(domain.NotesState) []*domain.Note) ([]*dto.NoteDTO, int, error) {
	if err := s.load(ctx); err != nil {
		return nil, 0, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	list := pick(s.state)
	start, end := pager.Paginate(len(list))
	return s.listToDTO(list[start:end]), len(list), nil
}

// Summary 分类统计
func (s *noteService) Summary(ctx context.Context) ([]*dto.CategorySummaryDTO, error) {
	if err := s.load(ctx); err != nil {
		return nil, err
	}

	s.mu.RLock()
	rows := domain.Summarize(s.state, s.config.Categories)
	s.mu.RUnlock()

	out := make([]*dto.CategorySummaryDTO, 0, len(rows))
	for _, r := range rows {
		out = append(out, &dto.CategorySummaryDTO{Category: r.Category, Active: r.Active, Archived: r.Archived})
	}
	return out, nil
}

// Categories 配置的分类
func (s *noteService) Categories() []string {
	return append([]string(nil), s.config.Categories...)
}

// Snapshot 返回状态的深拷贝
func (s *noteService) Snapshot(ctx context.Context) (domain.NotesState, error) {
	if err := s.load(ctx); err != nil {
		return domain.NotesState{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Clone(), nil
}
