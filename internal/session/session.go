// 包 session：进程内的选择状态会话存储（LRU + TTL）
package session

import (
	"container/list"
	"sync"
	"time"

	"agri-map/internal/metrics"
	"agri-map/internal/selection"

	"github.com/google/uuid"
)

// 默认容量与过期时间
const (
	DefaultCapacity = 4096
	DefaultTTL      = 24 * time.Hour
)

// 文档注释：单个会话
// 背景：选择状态只属于一个用户会话；同一会话的并发请求通过会话锁串行化，不同会话互不阻塞。
type Session struct {
	ID    string
	mu    sync.Mutex
	state selection.State
}

// Snapshot 返回当前状态副本
func (s *Session) Snapshot() selection.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Update 在会话锁内执行状态转换并保存结果
func (s *Session) Update(fn func(selection.State) selection.State) selection.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = fn(s.state)
	return s.state
}

// 文档注释：会话存储
// 背景：以 uuid 为键的 LRU；访问刷新过期时间并移到队首，超出容量时淘汰最久未用的会话。
// 约束：过期会话在访问时惰性删除；Now 可注入以便测试。
type Store struct {
	mu   sync.Mutex
	cap  int
	ttl  time.Duration
	lst  *list.List
	dict map[string]*list.Element
	Now  func() time.Time
}

type entry struct {
	s   *Session
	exp time.Time
}

// NewStore 构造存储；capacity/ttl 非正时取默认值
func NewStore(capacity int, ttl time.Duration) *Store {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Store{cap: capacity, ttl: ttl, lst: list.New(), dict: make(map[string]*list.Element), Now: time.Now}
}

// Create 以初始状态新建会话
func (c *Store) Create(initial selection.State) *Session {
	s := &Session{ID: uuid.NewString(), state: initial}
	c.mu.Lock()
	defer c.mu.Unlock()
	e := c.lst.PushFront(&entry{s: s, exp: c.Now().Add(c.ttl)})
	c.dict[s.ID] = e
	for c.lst.Len() > c.cap {
		c.removeLocked(c.lst.Back())
	}
	metrics.SessionsActive.Set(float64(c.lst.Len()))
	return s
}

// Get 按 id 查找会话并刷新过期时间
func (c *Store) Get(id string) (*Session, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.dict[id]
	if !ok {
		return nil, false
	}
	it := e.Value.(*entry)
	now := c.Now()
	if !now.Before(it.exp) {
		c.removeLocked(e)
		metrics.SessionsActive.Set(float64(c.lst.Len()))
		return nil, false
	}
	it.exp = now.Add(c.ttl)
	c.lst.MoveToFront(e)
	return it.s, true
}

// Delete 删除会话
func (c *Store) Delete(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if e, ok := c.dict[id]; ok {
		c.removeLocked(e)
		metrics.SessionsActive.Set(float64(c.lst.Len()))
	}
}

// Len 当前会话数（含尚未惰性清理的过期会话）
func (c *Store) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lst.Len()
}

func (c *Store) removeLocked(e *list.Element) {
	if e == nil {
		return
	}
	it := e.Value.(*entry)
	delete(c.dict, it.s.ID)
	c.lst.Remove(e)
}
