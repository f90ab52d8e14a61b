package main

import (
	"errors"
	"fmt"

	"github.com/quasilyte/gdata/v2"
)

const storeObject = "maps"

var errNoStore = errors.New("local map storage is not available")

// mapStore keeps validated maps between runs.
type mapStore interface {
	Save(name string, data []byte) error
	Load(name string) ([]byte, error)
}

type gdataStore struct {
	manager *gdata.Manager
}

func (s *gdataStore) Save(name string, data []byte) error {
	if err := s.manager.SaveObjectProp(storeObject, name, data); err != nil {
		return fmt.Errorf("save %q: %w", name, err)
	}
	return nil
}

func (s *gdataStore) Load(name string) ([]byte, error) {
	if !s.manager.ObjectPropExists(storeObject, name) {
		return nil, fmt.Errorf("no saved map named %q", name)
	}
	data, err := s.manager.LoadObjectProp(storeObject, name)
	if err != nil {
		return nil, fmt.Errorf("load %q: %w", name, err)
	}
	return data, nil
}
