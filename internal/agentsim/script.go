package agentsim

import (
	"context"
	"fmt"
	"os"
	"time"

	"kuctl/internal/protocol"

	"gopkg.in/yaml.v3"
)

// Script is a scripted agent session: a sequence of state changes and push
// events replayed against a Server.
type Script struct {
	Name  string `yaml:"name"`
	Steps []Step `yaml:"steps"`
}

// Step is one scripted action. Fields are applied in declaration order:
// await, wait, state updates, then the event.
type Step struct {
	// Await blocks until the client POSTs to the named endpoint
	// (config, auth, instances or libraryInfo).
	Await string        `yaml:"await,omitempty"`
	Wait  time.Duration `yaml:"wait,omitempty"`

	LibraryActive *bool            `yaml:"libraryActive,omitempty"`
	Auth          *ScriptAuth      `yaml:"auth,omitempty"`
	Instances     []ScriptInstance `yaml:"instances,omitempty"`
	LibraryInfo   *ScriptLibrary   `yaml:"libraryInfo,omitempty"`

	Event string `yaml:"event,omitempty"`
	Data  string `yaml:"data,omitempty"`
}

type ScriptAuth struct {
	LibraryName string `yaml:"libraryName"`
}

type ScriptInstance struct {
	Address     string `yaml:"address"`
	Description string `yaml:"description"`
}

type ScriptLibrary struct {
	SubtitleFields []string `yaml:"subtitleFields"`
	CurrSel        int      `yaml:"currSel"`
}

// ParseScript decodes a YAML script.
func ParseScript(data []byte) (*Script, error) {
	var sc Script
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, fmt.Errorf("failed to parse script: %w", err)
	}
	for i, st := range sc.Steps {
		if st.Await != "" && !awaitTargets[st.Await] {
			return nil, fmt.Errorf("step %d: unknown await target %q", i+1, st.Await)
		}
	}
	return &sc, nil
}

// LoadScript reads and decodes a YAML script file.
func LoadScript(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read script %s: %w", path, err)
	}
	return ParseScript(data)
}

var awaitTargets = map[string]bool{
	"config":      true,
	"auth":        true,
	"instances":   true,
	"libraryInfo": true,
}

func (s *Server) pathForRole(role string) string {
	switch role {
	case "config":
		return s.paths.Config
	case "auth":
		return s.paths.Auth
	case "instances":
		return s.paths.Instances
	case "libraryInfo":
		return s.paths.LibraryInfo
	}
	return ""
}

// Run replays the script against s. It waits for at least one push client
// before the first event so nothing is emitted into the void.
func (sc *Script) Run(ctx context.Context, s *Server) error {
	awaited := make(map[string]int)
	for i, st := range sc.Steps {
		if st.Await != "" {
			path := s.pathForRole(st.Await)
			awaited[path]++
			if err := s.awaitSubmissions(ctx, path, awaited[path]); err != nil {
				return err
			}
		}
		if st.Wait > 0 {
			select {
			case <-time.After(st.Wait):
			case <-ctx.Done():
				return ctx.Err()
			}
		}

		if st.LibraryActive != nil {
			s.SetLibraryActive(*st.LibraryActive)
		}
		if st.Auth != nil {
			s.SetAuth(protocol.AuthDocument{LibraryName: st.Auth.LibraryName})
		}
		if st.Instances != nil {
			instances := make([]protocol.Instance, 0, len(st.Instances))
			for _, in := range st.Instances {
				instances = append(instances, protocol.Instance{Address: in.Address, Description: in.Description})
			}
			s.SetInstances(instances)
		}
		if st.LibraryInfo != nil {
			s.SetLibraryInfo(protocol.LibraryInfo{
				SubtitleFields: st.LibraryInfo.SubtitleFields,
				CurrSel:        st.LibraryInfo.CurrSel,
			})
		}

		if st.Event != "" {
			if err := s.awaitSubscriber(ctx); err != nil {
				return err
			}
			id := s.Emit(st.Event, st.Data)
			s.logger.Info("script step", "step", i+1, "event", st.Event, "id", id)
		}
	}
	return nil
}

// awaitSubmissions blocks until at least n POSTs to path were accepted.
func (s *Server) awaitSubmissions(ctx context.Context, path string, n int) error {
	for {
		signal := s.submittedSignal()
		if len(s.SubmissionsTo(path)) >= n {
			return nil
		}
		select {
		case <-signal:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (s *Server) awaitSubscriber(ctx context.Context) error {
	ticker := time.NewTicker(20 * time.Millisecond)
	defer ticker.Stop()
	for s.Subscribers() == 0 {
		select {
		case <-ticker.C:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}
