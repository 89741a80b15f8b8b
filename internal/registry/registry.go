// Package registry discovers renderable scene declarations in a project's
// scenes directory.
package registry

import (
	"bufio"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/animakit/scenectl/internal/domain"
)

// classHeader matches a top-level Python class declaration with a base list,
// e.g. `class Intro(Scene):` or `class Orbit(ThreeDScene, SomeMixin):`.
var classHeader = regexp.MustCompile(`^class\s+([A-Za-z_]\w*)\s*\(([^)]*)\)\s*:`)

// baseKinds is the closed set of recognized scene-capable base classes.
// Membership here, not structural matching, decides what counts as a scene;
// extending support for a new Manim base class means adding it to this table.
var baseKinds = map[string]domain.SceneKind{
	"Scene":                     domain.KindPlanar,
	"ThreeDScene":               domain.KindThreeD,
	"MovingCameraScene":         domain.KindMovingCamera,
	"ZoomedScene":               domain.KindMovingCamera,
	"VectorScene":               domain.KindVector,
	"LinearTransformationScene": domain.KindVector,
}

// Discover scans dir for Python files declaring exactly one recognized scene
// class each and returns their descriptors in lexical file order. The order
// is stable across repeated scans.
//
// Discovery fails as a whole on an unreadable directory, on a file declaring
// more than one scene, or on two files declaring the same scene name.
func Discover(dir string) ([]domain.Scene, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, &domain.DiscoveryError{Dir: dir, Err: err}
	}

	var scenes []domain.Scene
	declaredIn := make(map[string]string)

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".py") || entry.Name() == "__init__.py" {
			continue
		}
		path := filepath.Join(dir, entry.Name())

		found, err := scanFile(path)
		if err != nil {
			return nil, err
		}
		if len(found) > 1 {
			names := make([]string, len(found))
			for i, s := range found {
				names[i] = s.Name
			}
			return nil, &domain.MultipleScenesInFileError{File: path, Names: names}
		}

		for _, s := range found {
			if prev, ok := declaredIn[s.Name]; ok {
				return nil, &domain.DuplicateSceneNameError{Name: s.Name, First: prev, Second: path}
			}
			declaredIn[s.Name] = path
			scenes = append(scenes, s)
		}
	}

	return scenes, nil
}

// Names returns the scene names in discovery order.
func Names(scenes []domain.Scene) []string {
	names := make([]string, len(scenes))
	for i, s := range scenes {
		names[i] = s.Name
	}
	return names
}

// scanFile extracts recognized scene declarations from one source file.
func scanFile(path string) ([]domain.Scene, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &domain.DiscoveryError{Dir: filepath.Dir(path), Err: err}
	}
	defer f.Close()

	var scenes []domain.Scene
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		m := classHeader.FindStringSubmatch(scanner.Text())
		if m == nil {
			continue
		}
		if kind, ok := sceneKind(m[2]); ok {
			scenes = append(scenes, domain.Scene{
				Name:       m[1],
				SourcePath: path,
				Kind:       kind,
			})
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, &domain.DiscoveryError{Dir: filepath.Dir(path), Err: err}
	}
	return scenes, nil
}

// sceneKind checks a class's base list against the recognized set. Dotted
// bases like manim.Scene are matched on their final segment.
func sceneKind(baseList string) (domain.SceneKind, bool) {
	for _, base := range strings.Split(baseList, ",") {
		base = strings.TrimSpace(base)
		if i := strings.LastIndex(base, "."); i >= 0 {
			base = base[i+1:]
		}
		if kind, ok := baseKinds[base]; ok {
			return kind, true
		}
	}
	return "", false
}
