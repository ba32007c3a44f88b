package posts

import (
	"context"
	"fmt"
	"log"
	"sort"
	"time"
)

// OrphanReport 孤儿文件清理结果
type OrphanReport struct {
	Scanned  int
	Orphans  []string
	Deleted  int
	Skipped  int   // 未超过宽限期的孤儿文件
	Bytes    int64 // 孤儿文件总大小
	Failures []string
}

// CleanOrphans 删除没有任何图片记录引用且早于 olderThan 的存储文件
// 刚上传尚未写入文章的文件通过宽限期保留
func (s *Service) CleanOrphans(ctx context.Context, olderThan time.Duration, dryRun bool) (*OrphanReport, error) {
	refs, err := s.repo.ReferencedFilenames(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load referenced filenames: %w", err)
	}

	files, err := s.storage.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list stored files: %w", err)
	}

	report := &OrphanReport{Scanned: len(files)}
	cutoff := time.Now().Add(-olderThan)

	for _, f := range files {
		if _, ok := refs[f.Name]; ok {
			continue
		}
		if f.ModTime.After(cutoff) {
			report.Skipped++
			continue
		}

		report.Orphans = append(report.Orphans, f.Name)
		report.Bytes += f.Size
		if dryRun {
			continue
		}

		if err := s.storage.DeleteWithContext(ctx, f.Name); err != nil {
			log.Printf("[Posts] Failed to delete orphan file %s: %v", f.Name, err)
			report.Failures = append(report.Failures, f.Name)
			continue
		}
		report.Deleted++
	}

	sort.Strings(report.Orphans)
	return report, nil
}
