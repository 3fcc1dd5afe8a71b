package sim

import (
	"context"

	"github.com/milk9111/motionseq/logging"
	"github.com/milk9111/motionseq/metrics"
	"github.com/milk9111/motionseq/prefabs"
)

// LibraryLoader rebuilds the motion library from its source files.
type LibraryLoader func() (*prefabs.Library, error)

// WatchLibrary reloads the library whenever a definitions or clip file
// changes and hands it to the tick loop. A failed reload keeps the current
// library. It returns when ctx is done or changes is closed.
func (s *Simulation) WatchLibrary(ctx context.Context, changes <-chan string, load LibraryLoader) error {
	log := logging.WithComponent("reload")
	for {
		select {
		case <-ctx.Done():
			return nil
		case path, ok := <-changes:
			if !ok {
				return nil
			}
			if !prefabs.IsDataFile(path) {
				log.Debug().Str(logging.FieldPath, path).Msg("non-data change ignored")
				continue
			}
			lib, err := load()
			metrics.RecordReload(err)
			if err != nil {
				log.Error().Err(err).Str(logging.FieldPath, path).Msg("reload failed, keeping current library")
				continue
			}
			log.Info().Str(logging.FieldPath, path).Int("sequences", lib.Catalog.Len()).Msg("library reloaded")
			s.ApplyLibrary(lib)
		}
	}
}
