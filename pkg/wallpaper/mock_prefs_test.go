package wallpaper

import (
	"sync"

	"fyne.io/fyne/v2"
)

// MockPreferences is an in-memory fyne.Preferences. Setters notify change
// listeners the way the real store does.
type MockPreferences struct {
	mu        sync.Mutex
	values    map[string]any
	listeners []func()
}

func NewMockPreferences() *MockPreferences {
	return &MockPreferences{values: make(map[string]any)}
}

var _ fyne.Preferences = (*MockPreferences)(nil)

func (m *MockPreferences) get(key string) (any, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.values[key]
	return v, ok
}

func (m *MockPreferences) set(key string, value any) {
	m.mu.Lock()
	m.values[key] = value
	listeners := append([]func(){}, m.listeners...)
	m.mu.Unlock()
	for _, fn := range listeners {
		fn()
	}
}

func lookup[T any](m *MockPreferences, key string, fallback T) T {
	if v, ok := m.get(key); ok {
		if t, ok := v.(T); ok {
			return t
		}
	}
	return fallback
}

func (m *MockPreferences) Bool(key string) bool { return lookup(m, key, false) }
func (m *MockPreferences) BoolWithFallback(key string, fallback bool) bool {
	return lookup(m, key, fallback)
}
func (m *MockPreferences) SetBool(key string, value bool) { m.set(key, value) }

func (m *MockPreferences) BoolList(key string) []bool { return lookup[[]bool](m, key, nil) }
func (m *MockPreferences) BoolListWithFallback(key string, fallback []bool) []bool {
	return lookup(m, key, fallback)
}
func (m *MockPreferences) SetBoolList(key string, value []bool) { m.set(key, value) }

func (m *MockPreferences) Float(key string) float64 { return lookup(m, key, 0.0) }
func (m *MockPreferences) FloatWithFallback(key string, fallback float64) float64 {
	return lookup(m, key, fallback)
}
func (m *MockPreferences) SetFloat(key string, value float64) { m.set(key, value) }

func (m *MockPreferences) FloatList(key string) []float64 { return lookup[[]float64](m, key, nil) }
func (m *MockPreferences) FloatListWithFallback(key string, fallback []float64) []float64 {
	return lookup(m, key, fallback)
}
func (m *MockPreferences) SetFloatList(key string, value []float64) { m.set(key, value) }

func (m *MockPreferences) Int(key string) int { return lookup(m, key, 0) }
func (m *MockPreferences) IntWithFallback(key string, fallback int) int {
	return lookup(m, key, fallback)
}
func (m *MockPreferences) SetInt(key string, value int) { m.set(key, value) }

func (m *MockPreferences) IntList(key string) []int { return lookup[[]int](m, key, nil) }
func (m *MockPreferences) IntListWithFallback(key string, fallback []int) []int {
	return lookup(m, key, fallback)
}
func (m *MockPreferences) SetIntList(key string, value []int) { m.set(key, value) }

func (m *MockPreferences) String(key string) string { return lookup(m, key, "") }
func (m *MockPreferences) StringWithFallback(key string, fallback string) string {
	return lookup(m, key, fallback)
}
func (m *MockPreferences) SetString(key string, value string) { m.set(key, value) }

func (m *MockPreferences) StringList(key string) []string { return lookup[[]string](m, key, nil) }
func (m *MockPreferences) StringListWithFallback(key string, fallback []string) []string {
	return lookup(m, key, fallback)
}
func (m *MockPreferences) SetStringList(key string, value []string) { m.set(key, value) }

func (m *MockPreferences) RemoveValue(key string) {
	m.mu.Lock()
	delete(m.values, key)
	m.mu.Unlock()
}

func (m *MockPreferences) AddChangeListener(callback func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listeners = append(m.listeners, callback)
}

func (m *MockPreferences) ChangeListeners() []func() {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]func(){}, m.listeners...)
}
