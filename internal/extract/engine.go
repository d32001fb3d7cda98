// Package extract 将中文文案抽取为语言资源 key，并改写源码引用
package extract

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"github.com/tangzhangming/i18nlint/internal/i18n"
	"github.com/tangzhangming/i18nlint/internal/matcher"
	"github.com/tangzhangming/i18nlint/internal/resource"
	"github.com/tangzhangming/i18nlint/internal/scanner"
)

// Store 语言资源存储
type Store interface {
	Get(key string) (string, bool)
	SetAndPersist(key, value string, validate bool) error
}

// Prompter 与用户交互
type Prompter interface {
	// InputKey 请求输入变量名；validate 返回非空字符串表示输入不合法。
	// 用户取消时返回空字符串。
	InputKey(ctx context.Context, prompt, initial string, validate func(string) string) (string, error)

	// Confirm 请求确认
	Confirm(ctx context.Context, message string) (bool, error)
}

// Options 抽取选项
type Options struct {
	KeyPrefix       string // 引用前缀，例如 I18N.
	TemplateFunc    string // 模板函数，例如 I18N.template
	CommonNamespace string // 公共文案命名空间，例如 common
	IndexModule     string // 聚合模块名，不能写入文案
}

// Request 一次抽取请求
type Request struct {
	// Targets 要替换的文案，按顺序处理
	Targets []scanner.Target

	// Key 资源 key，可以带或不带引用前缀；为空时需要询问用户
	Key string

	// ValidateDuplicate 写入前检查 key 是否已存在
	ValidateDuplicate bool
}

// Result 公共文案替换结果
type Result struct {
	Found    int
	Replaced int
}

// Engine 抽取引擎
type Engine struct {
	store Store
	opts  Options
	log   *zap.Logger
}

// NewEngine 创建抽取引擎
func NewEngine(store Store, opts Options, log *zap.Logger) *Engine {
	if opts.KeyPrefix == "" {
		opts.KeyPrefix = "I18N."
	}
	if opts.TemplateFunc == "" {
		opts.TemplateFunc = strings.TrimSuffix(opts.KeyPrefix, ".") + ".template"
	}
	if opts.CommonNamespace == "" {
		opts.CommonNamespace = "common"
	}
	if opts.IndexModule == "" {
		opts.IndexModule = "index"
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Engine{store: store, opts: opts, log: log.Named("extract")}
}

// Options 返回生效的选项
func (e *Engine) Options() Options {
	return e.opts
}

// Ref 返回 key 在源码中的引用
func (e *Engine) Ref(key string) string {
	return e.opts.KeyPrefix + e.normalize(key)
}

// normalize 去掉引用前缀，得到资源 key
func (e *Engine) normalize(key string) string {
	return strings.TrimPrefix(key, e.opts.KeyPrefix)
}

// item 流水线中的一处替换
type item struct {
	target    scanner.Target
	key       string
	validate  bool
	writeData bool
}

// Apply 按顺序替换请求中的所有文案，返回替换的数量
//
// 每处文案先写入语言资源，再改写源码；任意一步失败时停止，之前完成的替换保留。
func (e *Engine) Apply(ctx context.Context, ed Editor, req Request) (int, error) {
	if len(req.Targets) == 0 {
		return 0, ErrNoTargets
	}
	key := e.normalize(req.Key)
	if _, _, err := resource.SplitKey(key); err != nil {
		return 0, err
	}

	items := make([]item, 0, len(req.Targets))
	for _, t := range req.Targets {
		items = append(items, item{target: t, key: key, validate: req.ValidateDuplicate, writeData: true})
	}
	return e.run(ctx, ed, items)
}

// edit 已完成的源码修改，用于修正后续文案的偏移
type edit struct {
	start, end int
	delta      int
}

func (e *Engine) run(ctx context.Context, ed Editor, items []item) (int, error) {
	src := ed.Text()

	plans := make([]Plan, len(items))
	for i, it := range items {
		p, err := PlanReplacement(src, it.target, e.Ref(it.key), e.opts.TemplateFunc)
		if err != nil {
			return 0, err
		}
		plans[i] = p
	}

	var (
		pipeline Pipeline
		applied  []edit
	)
	for i := range items {
		it, plan := items[i], plans[i]
		pipeline.Add(fmt.Sprintf("replace %q", it.target.Text), func(ctx context.Context) error {
			if it.writeData {
				if err := e.persist(it.key, plan.Value, it.validate); err != nil {
					return err
				}
			}

			shift, err := shiftFor(applied, plan)
			if err != nil {
				return err
			}
			if err := ed.Replace(ctx, plan.Start+shift, plan.End+shift, plan.NewText); err != nil {
				return err
			}
			applied = append(applied, edit{
				start: plan.Start,
				end:   plan.End,
				delta: len(plan.NewText) - (plan.End - plan.Start),
			})

			e.log.Debug("target replaced",
				zap.String("text", it.target.Text),
				zap.String("key", it.key),
				zap.Int("start", plan.Start+shift),
			)
			return nil
		})
	}

	return pipeline.Run(ctx)
}

// persist 写入语言资源；key 已经是相同文案时跳过
func (e *Engine) persist(key, value string, validate bool) error {
	if existing, ok := e.store.Get(key); ok && existing == value {
		return nil
	}
	return e.store.SetAndPersist(key, value, validate)
}

// shiftFor 计算之前的修改对 plan 位置造成的偏移
func shiftFor(applied []edit, plan Plan) (int, error) {
	shift := 0
	for _, a := range applied {
		switch {
		case a.end <= plan.Start:
			shift += a.delta
		case a.start >= plan.End:
		default:
			return 0, fmt.Errorf("%w: overlapping targets at [%d, %d)", ErrStaleTarget, plan.Start, plan.End)
		}
	}
	return shift, nil
}

// Extract 抽取文案；请求没有指定 key 时询问用户
//
// 用户输入的 key 总是做重复检查；取消输入返回 ErrCancelled，不做任何修改。
func (e *Engine) Extract(ctx context.Context, ed Editor, prompter Prompter, req Request) (int, error) {
	if len(req.Targets) == 0 {
		return 0, ErrNoTargets
	}

	if req.Key == "" {
		input, err := prompter.InputKey(ctx, i18n.T(i18n.MsgPromptKey), e.opts.KeyPrefix, e.ValidateKey)
		if err != nil {
			return 0, err
		}
		if input == "" || e.ValidateKey(input) != "" {
			return 0, ErrCancelled
		}
		req.Key = input
		req.ValidateDuplicate = true
	}

	n, err := e.Apply(ctx, ed, req)
	if err != nil {
		e.log.Warn("extraction stopped", zap.String("key", req.Key), zap.Int("replaced", n), zap.Error(err))
		return n, err
	}
	e.log.Info("extraction finished", zap.String("key", req.Key), zap.Int("replaced", n))
	return n, nil
}

var identifierPattern = regexp.MustCompile(`^[A-Za-z_$][A-Za-z0-9_$]*$`)

// ValidateKey 校验用户输入的变量名，合法时返回空字符串
func (e *Engine) ValidateKey(input string) string {
	prefix := e.opts.KeyPrefix
	if !strings.HasPrefix(input, prefix) {
		return i18n.T(i18n.MsgKeyPrefix, prefix)
	}

	key := strings.TrimPrefix(input, prefix)
	if key == "" {
		return i18n.T(i18n.MsgKeyEmpty)
	}
	module, _, err := resource.SplitKey(key)
	if err != nil {
		return i18n.T(i18n.MsgKeyFormat, prefix)
	}
	segs := strings.Split(key, ".")
	for _, seg := range segs {
		if !identifierPattern.MatchString(seg) {
			return i18n.T(i18n.MsgKeySegment, seg)
		}
	}
	if module == e.opts.IndexModule {
		return i18n.T(i18n.MsgKeyReserved, module)
	}
	if _, ok := e.store.Get(key); ok {
		return i18n.T(i18n.MsgKeyExists, input)
	}
	// 上层路径已经是文案时，写入会覆盖它
	for i := 2; i < len(segs); i++ {
		parent := strings.Join(segs[:i], ".")
		if _, ok := e.store.Get(parent); ok {
			return i18n.T(i18n.MsgKeyUnderText, prefix+parent)
		}
	}
	return ""
}

// ReplaceCommon 将文档中与公共命名空间文案完全一致的字符串替换为已有 key
//
// 只改写源码，不写入语言资源。需要用户确认；拒绝时返回 ErrCancelled。
func (e *Engine) ReplaceCommon(ctx context.Context, ed Editor, prompter Prompter, corpus matcher.Corpus) (Result, error) {
	targets := scanner.Scan(ed.Text())
	reps := matcher.FindCommonReplaceable(corpus, targets, e.opts.CommonNamespace)

	result := Result{Found: len(reps)}
	if len(reps) == 0 {
		return result, nil
	}

	ok, err := prompter.Confirm(ctx, i18n.T(i18n.MsgConfirmCommon, len(reps)))
	if err != nil {
		return result, err
	}
	if !ok {
		return result, ErrCancelled
	}

	items := make([]item, 0, len(reps))
	for _, r := range reps {
		items = append(items, item{target: r.Target, key: r.Key})
	}

	n, err := e.run(ctx, ed, items)
	result.Replaced = n
	if err != nil {
		return result, err
	}
	e.log.Info("common text replaced", zap.Int("replaced", n))
	return result, nil
}
