package lsp

import (
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
	"go.lsp.dev/protocol"

	"github.com/tangzhangming/i18nlint/internal/debounce"
	"github.com/tangzhangming/i18nlint/internal/scanner"
)

// maxDocuments 同时缓存的文档数量
const maxDocuments = 64

// Document 表示一个打开的文档
type Document struct {
	URI        string
	LanguageID string

	mu      sync.Mutex
	content string
	version int

	// 最近一次扫描结果
	targets        []scanner.Target
	scannedVersion int
	scanned        bool

	rescan *debounce.Debouncer
}

// Snapshot 返回当前内容和版本
func (doc *Document) Snapshot() (content string, version int) {
	doc.mu.Lock()
	defer doc.mu.Unlock()
	return doc.content, doc.version
}

// Targets 返回与当前内容一致的扫描结果，必要时立即重新扫描
func (doc *Document) Targets() (content string, version int, targets []scanner.Target) {
	doc.mu.Lock()
	defer doc.mu.Unlock()

	if !doc.scanned || doc.scannedVersion != doc.version {
		doc.targets = scanner.Scan(doc.content)
		doc.scannedVersion = doc.version
		doc.scanned = true
	}
	return doc.content, doc.version, doc.targets
}

// contentChange 文本变更；Range 为空表示整篇替换
type contentChange struct {
	Range *protocol.Range `json:"range,omitempty"`
	Text  string          `json:"text"`
}

func (doc *Document) apply(changes []contentChange, version int) {
	doc.mu.Lock()
	defer doc.mu.Unlock()

	for _, c := range changes {
		if c.Range == nil {
			doc.content = c.Text
			continue
		}
		start := OffsetAt(doc.content, c.Range.Start)
		end := OffsetAt(doc.content, c.Range.End)
		if end < start {
			start, end = end, start
		}
		doc.content = doc.content[:start] + c.Text + doc.content[end:]
	}
	doc.version = version
}

func (doc *Document) setContent(content string) {
	doc.mu.Lock()
	defer doc.mu.Unlock()
	doc.content = content
	doc.version++
}

// DocumentManager 文档管理器，按最近使用淘汰
type DocumentManager struct {
	cache *lru.Cache[string, *Document]

	// newRescan 为文档创建防抖扫描任务
	newRescan func(doc *Document) *debounce.Debouncer
}

// NewDocumentManager 创建文档管理器
func NewDocumentManager(newRescan func(doc *Document) *debounce.Debouncer) *DocumentManager {
	cache, _ := lru.NewWithEvict[string, *Document](maxDocuments, func(_ string, doc *Document) {
		if doc.rescan != nil {
			doc.rescan.Cancel()
		}
	})
	return &DocumentManager{cache: cache, newRescan: newRescan}
}

// Open 打开文档
func (dm *DocumentManager) Open(uri, languageID, content string, version int) *Document {
	doc := &Document{
		URI:        uri,
		LanguageID: languageID,
		content:    content,
		version:    version,
	}
	if dm.newRescan != nil {
		doc.rescan = dm.newRescan(doc)
	}
	dm.cache.Add(uri, doc)
	return doc
}

// Close 关闭文档
func (dm *DocumentManager) Close(uri string) {
	dm.cache.Remove(uri)
}

// Get 获取文档
func (dm *DocumentManager) Get(uri string) *Document {
	doc, ok := dm.cache.Get(uri)
	if !ok {
		return nil
	}
	return doc
}

// ApplyChange 应用变更
func (dm *DocumentManager) ApplyChange(uri string, changes []contentChange, version int) *Document {
	doc := dm.Get(uri)
	if doc == nil {
		return nil
	}
	doc.apply(changes, version)
	return doc
}

// UpdateContent 整篇更新文档内容
func (dm *DocumentManager) UpdateContent(uri, content string) *Document {
	doc := dm.Get(uri)
	if doc == nil {
		return nil
	}
	doc.setContent(content)
	return doc
}

// GetAll 获取所有文档
func (dm *DocumentManager) GetAll() []*Document {
	return dm.cache.Values()
}
