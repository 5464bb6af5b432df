package datastore

import (
	"os"
	"path/filepath"

	"github.com/shirou/gopsutil/v3/disk"
)

// StorageInfo estimates the backing-store usage of the engine.
type StorageInfo struct {
	UsedBytes      int64 `json:"used_bytes"`
	AvailableBytes int64 `json:"available_bytes"`
	TotalBytes     int64 `json:"total_bytes"`
}

// StorageInfo reports bytes used by the persisted collections against the
// configured capacity ceiling, bounded by the free space of the disk the
// base path lives on.
func (s *Store) StorageInfo() (StorageInfo, error) {
	var used int64
	for _, fileName := range []string{screenshotsFile, diffsFile, settingsFile, suitesFile} {
		info, err := os.Stat(filepath.Join(s.config.BasePath, fileName))
		if err != nil {
			continue
		}
		used += info.Size()
	}

	total := s.config.CapacityBytes

	available := total - used
	if available < 0 {
		available = 0
	}

	if usage, err := disk.Usage(s.config.BasePath); err == nil {
		if free := int64(usage.Free); free < available {
			available = free
		}
	} else {
		s.logger.Debug().Err(err).Msg("Disk usage probe failed, reporting capacity-based availability")
	}

	return StorageInfo{
		UsedBytes:      used,
		AvailableBytes: available,
		TotalBytes:     total,
	}, nil
}
