// Package resource 管理语言资源目录：加载、拍平、查询以及写回资源模块
//
// 资源目录下每个文件是一个模块，内容为 `export default {JSON 对象}`。
// 模块名（文件名去掉扩展名）作为 key 的第一段；聚合模块（默认 index）不参与拍平。
package resource

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/gobwas/glob"
	"github.com/tidwall/gjson"
	"go.uber.org/atomic"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// Options 资源目录选项
type Options struct {
	Dir         string // 资源目录
	Pattern     string // 文件名 glob，例如 *.ts
	Extension   string // 新建模块的扩展名，例如 .ts
	IndexModule string // 聚合模块名，例如 index

	Logger *zap.Logger

	// OnCreate 新建模块文件后回调
	OnCreate func(module, path string)
}

// Snapshot 某一次加载的结果，创建后不再修改
type Snapshot struct {
	Version  uint64
	Table    *Table
	Modules  []string
	Warnings []*ModuleError
}

// Warning 合并本次加载的所有模块错误
func (s *Snapshot) Warning() error {
	if s == nil {
		return nil
	}
	errs := make([]error, 0, len(s.Warnings))
	for _, w := range s.Warnings {
		errs = append(errs, w)
	}
	return multierr.Combine(errs...)
}

// Store 语言资源存储
//
// 读取方总是拿到最近一次完整加载的快照；写入和重新加载互斥执行。
type Store struct {
	opts    Options
	pattern glob.Glob
	log     *zap.Logger

	current atomic.Pointer[Snapshot]
	version atomic.Uint64

	mu sync.Mutex
}

// NewStore 创建资源存储，不会立即加载
func NewStore(opts Options) (*Store, error) {
	if opts.Dir == "" {
		return nil, errors.New("resource dir is empty")
	}
	if opts.Pattern == "" {
		opts.Pattern = "*" + opts.Extension
	}
	if opts.Extension == "" {
		opts.Extension = filepath.Ext(opts.Pattern)
	}
	if opts.IndexModule == "" {
		opts.IndexModule = "index"
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}

	g, err := glob.Compile(opts.Pattern)
	if err != nil {
		return nil, fmt.Errorf("invalid resource pattern %q: %w", opts.Pattern, err)
	}

	s := &Store{
		opts:    opts,
		pattern: g,
		log:     opts.Logger.Named("resource"),
	}
	s.current.Store(&Snapshot{Table: NewTable()})
	return s, nil
}

// Dir 资源目录
func (s *Store) Dir() string {
	return s.opts.Dir
}

// IndexModule 聚合模块名
func (s *Store) IndexModule() string {
	return s.opts.IndexModule
}

// Matches 检查文件名是否属于资源目录的模块文件（包括聚合模块）
func (s *Store) Matches(path string) bool {
	if filepath.Clean(filepath.Dir(path)) != filepath.Clean(s.opts.Dir) {
		return false
	}
	return s.pattern.Match(filepath.Base(path))
}

// ModulePath 返回模块文件路径
func (s *Store) ModulePath(module string) string {
	return filepath.Join(s.opts.Dir, module+s.opts.Extension)
}

// Snapshot 返回当前快照
func (s *Store) Snapshot() *Snapshot {
	return s.current.Load()
}

// Table 返回当前文案表
func (s *Store) Table() *Table {
	return s.current.Load().Table
}

// Get 查询文案
func (s *Store) Get(key string) (string, bool) {
	return s.Table().Get(key)
}

// Reload 重新加载整个资源目录并替换快照
func (s *Store) Reload() *Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reloadLocked()
}

func (s *Store) reloadLocked() *Snapshot {
	snap := s.load()
	snap.Version = s.version.Inc()
	s.current.Store(snap)

	s.log.Debug("resource table reloaded",
		zap.Uint64("version", snap.Version),
		zap.Int("modules", len(snap.Modules)),
		zap.Int("keys", snap.Table.Len()),
	)
	return snap
}

// load 读取并拍平所有模块；单个模块失败时记录警告并视为空模块
func (s *Store) load() *Snapshot {
	snap := &Snapshot{Table: NewTable()}

	files, err := s.listModules()
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			s.log.Warn("failed to list resource dir", zap.String("dir", s.opts.Dir), zap.Error(err))
		}
		return snap
	}

	for _, name := range files {
		module := strings.TrimSuffix(name, filepath.Ext(name))
		if module == s.opts.IndexModule {
			continue
		}
		snap.Modules = append(snap.Modules, module)

		path := filepath.Join(s.opts.Dir, name)
		obj, err := readModule(path)
		if err != nil {
			me := &ModuleError{Module: module, Path: path, Err: err}
			snap.Warnings = append(snap.Warnings, me)
			s.log.Warn("failed to load resource module",
				zap.String("module", module),
				zap.String("path", path),
				zap.Error(err),
			)
			continue
		}
		FlattenInto(snap.Table, module, obj)
	}
	return snap
}

// listModules 列出资源目录下匹配的文件名（不递归，按名称排序）
func (s *Store) listModules() ([]string, error) {
	entries, err := os.ReadDir(s.opts.Dir)
	if err != nil {
		return nil, err
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() || !s.pattern.Match(e.Name()) {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)
	return names, nil
}

func readModule(path string) (gjson.Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return gjson.Result{}, err
	}
	return ParseModule(data)
}

// SetAndPersist 写入 key 并保存到模块文件，成功后重新加载
//
// key 形如 module.a.b。模块文件不存在时新建并登记到聚合模块；
// validate 为 true 且 key 已存在时返回 *DuplicateKeyError，文件保持不变。
// 模块文件无法解析时返回 *ModuleError，不会覆盖该文件。
func (s *Store) SetAndPersist(key, value string, validate bool) error {
	module, rest, err := s.splitKey(key)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	path := s.ModulePath(module)
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		if err := s.createModule(module, rest, value); err != nil {
			return err
		}
		s.reloadLocked()
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}

	obj, err := ParseModule(data)
	if err != nil {
		return &ModuleError{Module: module, Path: path, Err: err}
	}

	if validate {
		if taken := occupiedPath(obj, rest); taken != "" {
			return &DuplicateKeyError{File: filepath.Base(path), Key: taken}
		}
	}

	updated, err := SetPath([]byte(obj.Raw), rest, value)
	if err != nil {
		return fmt.Errorf("failed to set %s: %w", key, err)
	}
	if err := writeAtomic(path, FormatModule(updated)); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}

	s.log.Info("resource key written", zap.String("key", key), zap.String("path", path))
	s.reloadLocked()
	return nil
}

// splitKey 拆分 key，聚合模块不能写入文案
func (s *Store) splitKey(key string) (module, rest string, err error) {
	module, rest, err = SplitKey(key)
	if err != nil {
		return "", "", err
	}
	if module == s.opts.IndexModule {
		return "", "", fmt.Errorf("%w: module %q is reserved for the index", ErrInvalidKey, module)
	}
	return module, rest, nil
}

// occupiedPath 返回阻止写入 rest 的路径：rest 本身已存在，或某个前缀已是文案
func occupiedPath(obj gjson.Result, rest string) string {
	if LookupPath(obj, rest).Exists() {
		return rest
	}
	segs := strings.Split(rest, ".")
	for i := 1; i < len(segs); i++ {
		prefix := strings.Join(segs[:i], ".")
		if v := LookupPath(obj, prefix); v.Exists() && !v.IsObject() {
			return prefix
		}
	}
	return ""
}

// CreateModule 新建只包含一个 key 的模块文件，并登记到聚合模块
func (s *Store) CreateModule(module, rest, value string) error {
	if _, _, err := s.splitKey(module + "." + rest); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.createModule(module, rest, value); err != nil {
		return err
	}
	s.reloadLocked()
	return nil
}

func (s *Store) createModule(module, rest, value string) error {
	path := s.ModulePath(module)
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("module %s already exists", path)
	}

	obj, err := SetPath([]byte("{}"), rest, value)
	if err != nil {
		return fmt.Errorf("failed to set %s.%s: %w", module, rest, err)
	}

	if err := os.MkdirAll(s.opts.Dir, 0755); err != nil {
		return fmt.Errorf("failed to create resource dir: %w", err)
	}
	if err := writeAtomic(path, FormatModule(obj)); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	s.log.Info("resource module created", zap.String("module", module), zap.String("path", path))

	if err := s.registerIndex(module); err != nil {
		return err
	}

	if s.opts.OnCreate != nil {
		s.opts.OnCreate(module, path)
	}
	return nil
}

// registerIndex 在聚合模块中导入并导出新模块
func (s *Store) registerIndex(module string) error {
	path := s.ModulePath(s.opts.IndexModule)

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return writeAtomic(path, []byte(newIndexContent(module)))
	}
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}

	content, ok := registerModule(string(data), module)
	if !ok {
		s.log.Warn("index module has no aggregation object, only the import was added",
			zap.String("path", path), zap.String("module", module))
	}
	if content == string(data) {
		return nil
	}
	if err := writeAtomic(path, []byte(content)); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
