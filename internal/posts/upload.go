package posts

import (
	"context"
	"errors"
	"fmt"
	"log"
	"mime/multipart"

	"github.com/anoixa/postboard/storage"
	"github.com/anoixa/postboard/utils"
	"github.com/anoixa/postboard/utils/format"
	"github.com/anoixa/postboard/utils/validator"
	"golang.org/x/sync/errgroup"
)

const (
	// randomNameLength 随机文件名长度（十六进制字符）
	randomNameLength = 32

	uploadParallelism = 4
)

// UploadImage 保存单张图片，返回可嵌入文章请求的图片描述
func (s *Service) UploadImage(ctx context.Context, file *multipart.FileHeader) (*UploadedImage, error) {
	if file == nil {
		return nil, ErrNoFile
	}
	return s.saveUpload(ctx, file)
}

// UploadImages 并行保存多张图片，任意一张失败时删除已保存的文件
func (s *Service) UploadImages(ctx context.Context, files []*multipart.FileHeader) ([]*UploadedImage, error) {
	if len(files) == 0 {
		return nil, ErrNoFile
	}
	if len(files) > s.maxFiles {
		return nil, fmt.Errorf("%w: at most %d files per request", ErrTooManyFiles, s.maxFiles)
	}

	results := make([]*UploadedImage, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(uploadParallelism)

	for i, fh := range files {
		g.Go(func() error {
			if fh == nil {
				return ErrNoFile
			}
			uploaded, err := s.saveUpload(gctx, fh)
			if err != nil {
				return err
			}
			results[i] = uploaded
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		var saved []string
		for _, r := range results {
			if r != nil {
				saved = append(saved, r.Filename)
			}
		}
		s.deleteFiles(ctx, saved)
		return nil, err
	}

	return results, nil
}

// saveUpload 校验图片内容并以随机文件名保存
func (s *Service) saveUpload(ctx context.Context, fh *multipart.FileHeader) (*UploadedImage, error) {
	if s.maxFileSize > 0 && fh.Size > s.maxFileSize {
		return nil, fmt.Errorf("%w: %s is %s, limit %s", ErrFileTooLarge, utils.SanitizeLogMessage(fh.Filename),
			format.HumanReadableSize(fh.Size), format.HumanReadableSize(s.maxFileSize))
	}

	file, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer func() { _ = file.Close() }()

	info, err := validator.DetectImage(file)
	if err != nil {
		if errors.Is(err, validator.ErrNotImage) {
			return nil, fmt.Errorf("%w: %s", ErrInvalidImage, utils.SanitizeLogMessage(fh.Filename))
		}
		return nil, err
	}

	name, err := utils.GenerateRandomHex(randomNameLength)
	if err != nil {
		return nil, fmt.Errorf("failed to generate file name: %w", err)
	}
	filename := name + validator.SafeExtension(fh.Filename, info.Format)

	if err := s.storage.SaveWithContext(ctx, filename, file); err != nil {
		return nil, fmt.Errorf("failed to save uploaded file: %w", err)
	}

	utils.LogIfDevf("[Posts] Stored upload %s (%s %dx%d)", filename, info.Format, info.Width, info.Height)

	return &UploadedImage{
		Src:      utils.BuildUploadURL(s.baseURL, filename),
		Filename: filename,
	}, nil
}

// OpenImage 打开已上传的图片，调用方负责关闭
func (s *Service) OpenImage(ctx context.Context, filename string) (*storage.Object, error) {
	if !storage.IsValidIdentifier(filename) {
		return nil, ErrImageNotFound
	}

	obj, err := s.storage.GetWithContext(ctx, filename)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) || errors.Is(err, storage.ErrInvalidIdentifier) {
			return nil, ErrImageNotFound
		}
		log.Printf("[Posts] Failed to open image %s: %v", filename, err)
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	return obj, nil
}
