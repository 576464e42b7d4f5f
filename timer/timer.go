// timer/timer.go
package timer

import (
	"container/heap"
	"sync"
	"time"
)

// Task 定时任务
type Task struct {
	ID       int64
	Execute  time.Time
	Interval time.Duration // 0 表示一次性任务
	Callback func()
	index    int
}

type taskQueue []*Task

func (q taskQueue) Len() int { return len(q) }

func (q taskQueue) Less(i, j int) bool {
	return q[i].Execute.Before(q[j].Execute)
}

func (q taskQueue) Swap(i, j int) {
	q[i], q[j] = q[j], q[i]
	q[i].index = i
	q[j].index = j
}

func (q *taskQueue) Push(x interface{}) {
	n := len(*q)
	task := x.(*Task)
	task.index = n
	*q = append(*q, task)
}

func (q *taskQueue) Pop() interface{} {
	old := *q
	n := len(old)
	task := old[n-1]
	task.index = -1
	*q = old[0 : n-1]
	return task
}

// Manager schedules one-shot and repeating callbacks off a single
// coarse ticker. Callbacks run on their own goroutines.
type Manager struct {
	queue     taskQueue
	mutex     sync.Mutex
	nextID    int64
	trigger   chan *Task
	closeChan chan bool
	closeOnce sync.Once
}

func NewManager() *Manager {
	m := &Manager{
		queue:     make(taskQueue, 0),
		trigger:   make(chan *Task, 1000),
		nextID:    1,
		closeChan: make(chan bool),
	}
	heap.Init(&m.queue)
	go m.process()
	return m
}

// Schedule registers a callback after delay; a non-zero interval makes
// it repeat. Returns the task ID for Cancel.
func (m *Manager) Schedule(delay time.Duration, interval time.Duration, callback func()) int64 {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	task := &Task{
		ID:       m.nextID,
		Execute:  time.Now().Add(delay),
		Interval: interval,
		Callback: callback,
	}
	m.nextID++

	heap.Push(&m.queue, task)
	return task.ID
}

func (m *Manager) Cancel(taskID int64) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	for i, task := range m.queue {
		if task.ID == taskID {
			heap.Remove(&m.queue, i)
			break
		}
	}
}

// Stop shuts the scheduling loop down. Already-triggered callbacks
// still finish.
func (m *Manager) Stop() {
	m.closeOnce.Do(func() {
		close(m.closeChan)
	})
}

func (m *Manager) process() {
	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			m.mutex.Lock()
			now := time.Now()

			for m.queue.Len() > 0 {
				task := m.queue[0]
				if task.Execute.After(now) {
					break
				}

				heap.Pop(&m.queue)
				m.trigger <- task

				if task.Interval > 0 {
					task.Execute = now.Add(task.Interval)
					heap.Push(&m.queue, task)
				}
			}
			m.mutex.Unlock()

		case task := <-m.trigger:
			go task.Callback()

		case <-m.closeChan:
			return
		}
	}
}
