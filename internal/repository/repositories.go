package repository

import "gorm.io/gorm"

// Repositories 所有仓储的集合，便于在事务内整体切换
type Repositories struct {
	Category        CategoryRepository
	Game            GameRepository
	Project         ProjectRepository
	ProjectCategory ProjectCategoryRepository
	ProjectGame     ProjectGameRepository
	Comment         CommentRepository
}

func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		Category:        NewCategoryRepository(db),
		Game:            NewGameRepository(db),
		Project:         NewProjectRepository(db),
		ProjectCategory: NewProjectCategoryRepository(db),
		ProjectGame:     NewProjectGameRepository(db),
		Comment:         NewCommentRepository(db),
	}
}

// WithTx 返回绑定到事务 tx 的仓储集合
func (r *Repositories) WithTx(tx *gorm.DB) *Repositories {
	return &Repositories{
		Category:        r.Category.WithTx(tx),
		Game:            r.Game.WithTx(tx),
		Project:         r.Project.WithTx(tx),
		ProjectCategory: r.ProjectCategory.WithTx(tx),
		ProjectGame:     r.ProjectGame.WithTx(tx),
		Comment:         r.Comment.WithTx(tx),
	}
}
