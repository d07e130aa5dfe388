package settings

import "sync"

type InMemory struct {
	values map[string]string
	mutex  *sync.RWMutex
}

func NewInMemory(initial map[string]string) *InMemory {
	values := make(map[string]string, len(initial))
	for key, value := range initial {
		values[key] = value
	}

	return &InMemory{
		values: values,
		mutex:  &sync.RWMutex{},
	}
}

func (s *InMemory) Get(key, defaultValue string) string {
	s.mutex.RLock()
	value, exists := s.values[key]
	s.mutex.RUnlock()

	if !exists || value == "" {
		return defaultValue
	}
	return value
}

func (s *InMemory) Set(key, value string) error {
	s.mutex.Lock()
	s.values[key] = value
	s.mutex.Unlock()
	return nil
}

func (s *InMemory) Delete(key string) error {
	s.mutex.Lock()
	delete(s.values, key)
	s.mutex.Unlock()
	return nil
}

func (s *InMemory) All() map[string]string {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	values := make(map[string]string, len(s.values))
	for key, value := range s.values {
		values[key] = value
	}
	return values
}
