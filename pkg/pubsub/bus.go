// Package pubsub реализует простую синхронную шину сообщений с подпиской по топику.
// Обработчики вызываются в порядке подписки в горутине издателя.
package pubsub

import "sync"

// Wildcard — топик, подписчики которого получают сообщения всех топиков.
const Wildcard = "*"

// Handler обрабатывает одно сообщение топика.
type Handler[T any] func(topic string, msg T)

type subscriber[T any] struct {
	id      uint64
	handler Handler[T]
}

// Bus — потокобезопасная шина сообщений типа T.
type Bus[T any] struct {
	mu     sync.RWMutex
	nextID uint64
	subs   map[string][]subscriber[T]
}

func NewBus[T any]() *Bus[T] {
	return &Bus[T]{
		subs: make(map[string][]subscriber[T]),
	}
}

// Subscribe регистрирует обработчик на топик и возвращает функцию отписки.
// Повторный вызов функции отписки ничего не делает.
func (b *Bus[T]) Subscribe(topic string, h Handler[T]) (unsubscribe func()) {
	b.mu.Lock()
	b.nextID++
	id := b.nextID
	b.subs[topic] = append(b.subs[topic], subscriber[T]{id: id, handler: h})
	b.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			b.remove(topic, id)
		})
	}
}

// Publish синхронно доставляет сообщение подписчикам топика, затем подписчикам Wildcard.
func (b *Bus[T]) Publish(topic string, msg T) {
	b.mu.RLock()
	handlers := make([]Handler[T], 0, len(b.subs[topic])+len(b.subs[Wildcard]))
	for _, s := range b.subs[topic] {
		handlers = append(handlers, s.handler)
	}
	if topic != Wildcard {
		for _, s := range b.subs[Wildcard] {
			handlers = append(handlers, s.handler)
		}
	}
	b.mu.RUnlock()

	for _, h := range handlers {
		h(topic, msg)
	}
}

// Subscribers возвращает количество подписчиков топика (без учёта Wildcard).
func (b *Bus[T]) Subscribers(topic string) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs[topic])
}

func (b *Bus[T]) remove(topic string, id uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()

	subs := b.subs[topic]
	for i, s := range subs {
		if s.id == id {
			b.subs[topic] = append(subs[:i:i], subs[i+1:]...)
			break
		}
	}
	if len(b.subs[topic]) == 0 {
		delete(b.subs, topic)
	}
}
