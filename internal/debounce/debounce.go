// Package debounce 合并短时间内的重复触发
package debounce

import (
	"sync"
	"time"
)

// Debouncer 防抖执行器
//
// 每次 Trigger 取消尚未执行的任务并重新计时，只有一串触发中的最后一次会执行；
// 同一时刻最多一个 fn 在运行。
type Debouncer struct {
	delay time.Duration
	fn    func()

	mu    sync.Mutex
	timer *time.Timer
	gen   uint64

	run sync.Mutex
}

// New 创建防抖执行器
func New(delay time.Duration, fn func()) *Debouncer {
	return &Debouncer{delay: delay, fn: fn}
}

// Trigger 重新计时
func (d *Debouncer) Trigger() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.gen++
	gen := d.gen
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.delay, func() {
		d.fire(gen)
	})
}

// Cancel 取消尚未执行的任务
func (d *Debouncer) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.gen++
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}

func (d *Debouncer) current(gen uint64) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.gen == gen
}

func (d *Debouncer) fire(gen uint64) {
	if !d.current(gen) {
		return
	}

	d.run.Lock()
	defer d.run.Unlock()

	// 等待上一次执行期间又有新的触发
	if !d.current(gen) {
		return
	}
	d.fn()
}
