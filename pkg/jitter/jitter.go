// Package jitter добавляет случайность в интервалы повторов, чтобы повторные
// попытки нескольких воркеров не совпадали по времени.
package jitter

import (
	"math/rand/v2"
	"time"
)

// DefaultJitter — стандартный коэффициент джиттера (50%)
const DefaultJitter = 0.5

// Source — источник случайных чисел в диапазоне [0, 1).
type Source func() float64

// Duration возвращает продолжительность с применённым джиттером.
// Результат находится в диапазоне [d, d*(1+jitterFactor)).
func Duration(d time.Duration, jitterFactor float64) time.Duration {
	return DurationWithSource(d, jitterFactor, rand.Float64)
}

// DurationWithSource применяет джиттер с заданным источником, например детерминированным в тестах.
func DurationWithSource(d time.Duration, jitterFactor float64, src Source) time.Duration {
	if d <= 0 || jitterFactor <= 0 {
		return d
	}
	return d + time.Duration(src()*jitterFactor*float64(d))
}

// ExponentialBackoff вычисляет задержку попытки attempt (с нуля): base*2^attempt,
// но не больше max, плюс джиттер.
func ExponentialBackoff(base, max time.Duration, attempt int, jitterFactor float64) time.Duration {
	return Duration(backoff(base, max, attempt), jitterFactor)
}

func backoff(base, max time.Duration, attempt int) time.Duration {
	d := base
	for range attempt {
		d *= 2
		if d >= max {
			return max
		}
	}
	return min(d, max)
}
