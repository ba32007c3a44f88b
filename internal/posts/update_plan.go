package posts

import (
	"github.com/anoixa/postboard/database/models"
	postsrepo "github.com/anoixa/postboard/database/repo/posts"
)

// updatePlan 把更新请求转换为数据库变更集和待删除文件列表
type updatePlan struct {
	post    *models.Post
	changes *postsrepo.Changeset

	removedFiles   []string
	removedFront   map[string]bool
	removedGallery map[string]bool
}

func newUpdatePlan(post *models.Post) *updatePlan {
	return &updatePlan{
		post:           post,
		changes:        &postsrepo.Changeset{Post: post},
		removedFront:   make(map[string]bool),
		removedGallery: make(map[string]bool),
	}
}

// currentFront 当前（变更前）的封面图
func (p *updatePlan) currentFront() *models.FrontImage {
	return p.post.FrontImage
}

func (p *updatePlan) removeFront(img *models.FrontImage) {
	if img == nil || p.removedFront[img.ID] {
		return
	}
	p.removedFront[img.ID] = true
	p.changes.DeleteFrontImageIDs = append(p.changes.DeleteFrontImageIDs, img.ID)
	p.removedFiles = append(p.removedFiles, img.Filename)
}

func (p *updatePlan) removeGallery(img *models.GalleryImage) {
	if p.removedGallery[img.ID] {
		return
	}
	p.removedGallery[img.ID] = true
	p.changes.DeleteGalleryIDs = append(p.changes.DeleteGalleryIDs, img.ID)
	p.removedFiles = append(p.removedFiles, img.Filename)
}

// applyFrontImage 缺省不修改；null 或空对象清除；无 id 的对象替换；
// 带当前封面 id 的对象保持不变，未知 id 忽略
func (p *updatePlan) applyFrontImage(opt OptionalImage) error {
	if !opt.Set {
		return nil
	}

	current := p.currentFront()

	if opt.Value.IsEmpty() {
		if current != nil {
			p.changes.ClearFrontImage = true
			p.removeFront(current)
		}
		return nil
	}

	if opt.Value.ID != "" {
		return nil
	}

	front, err := newFrontImage(opt.Value)
	if err != nil {
		return err
	}
	p.changes.NewFrontImage = front
	p.removeFront(current)
	return nil
}

// applyGallery 以请求中的集合替换图库：保留属于本文章的已有图片，
// 创建无 id 的新图片，移除不在集合中的旧图片
func (p *updatePlan) applyGallery(gallery []ImageInput) error {
	keep := make(map[string]bool, len(gallery))
	owned := make(map[string]bool, len(p.post.Gallery))
	for _, img := range p.post.Gallery {
		owned[img.ID] = true
	}

	for i := range gallery {
		in := &gallery[i]
		if in.ID != "" {
			if owned[in.ID] {
				keep[in.ID] = true
			}
			continue
		}
		img, err := newGalleryImage(in)
		if err != nil {
			return err
		}
		p.changes.NewGallery = append(p.changes.NewGallery, *img)
	}

	for i := range p.post.Gallery {
		if !keep[p.post.Gallery[i].ID] {
			p.removeGallery(&p.post.Gallery[i])
		}
	}
	return nil
}

// applyDeletions 处理显式删除列表，只影响属于本文章的图片
func (p *updatePlan) applyDeletions(front *ImageInput, gallery []ImageInput) {
	if current := p.currentFront(); front != nil && current != nil && front.ID == current.ID {
		if p.changes.NewFrontImage == nil {
			p.changes.ClearFrontImage = true
		}
		p.removeFront(current)
	}

	if len(gallery) == 0 {
		return
	}
	wanted := make(map[string]bool, len(gallery))
	for _, img := range gallery {
		if img.ID != "" {
			wanted[img.ID] = true
		}
	}
	for i := range p.post.Gallery {
		if wanted[p.post.Gallery[i].ID] {
			p.removeGallery(&p.post.Gallery[i])
		}
	}
}
