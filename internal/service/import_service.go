package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/gosimple/slug"
	"github.com/samber/lo"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"game-portal-cms/internal/dto"
	"game-portal-cms/internal/model"
	"game-portal-cms/internal/pkg/config"
	"game-portal-cms/internal/pkg/logger"
	"game-portal-cms/internal/pkg/metrics"
	"game-portal-cms/internal/pkg/retry"
	"game-portal-cms/internal/repository"
	pkgErrors "game-portal-cms/pkg/errors"
)

const defaultImportMaxBytes = 8 << 20

// ImportService 从 YAML/JSON 目录批量导入游戏库
type ImportService interface {
	ImportFile(ctx context.Context, path string) (*dto.ImportResult, error)
	ImportURL(ctx context.Context, url string) (*dto.ImportResult, error)
	Import(ctx context.Context, data []byte) (*dto.ImportResult, error)
}

type importService struct {
	db     *gorm.DB
	repos  *repository.Repositories
	cfg    *config.ImportConfig
	client *http.Client
	policy retry.Policy
}

func NewImportService(db *gorm.DB, repos *repository.Repositories, cfg *config.ImportConfig) ImportService {
	return &importService{
		db:     db,
		repos:  repos,
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
		policy: retry.FromConfig(cfg.Retry),
	}
}

func (s *importService) ImportFile(ctx context.Context, path string) (*dto.ImportResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, pkgErrors.Validation("读取目录文件失败: %v", err)
	}
	return s.Import(ctx, data)
}

// ImportURL 拉取远程目录；429/5xx 与网络错误按重试策略重试
func (s *importService) ImportURL(ctx context.Context, url string) (*dto.ImportResult, error) {
	if !isHTTPURL(url) {
		return nil, pkgErrors.Validation("url 不是合法的 http(s) 地址")
	}

	var data []byte
	err := retry.Do(ctx, s.policy, "catalog_fetch", func(ctx context.Context) error {
		body, err := s.fetch(ctx, url)
		metrics.OutboundCalls.WithLabelValues("catalog", metrics.Result(err)).Inc()
		if err != nil {
			return err
		}
		data = body
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.Import(ctx, data)
}

func (s *importService) fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, pkgErrors.Validation("创建请求失败: %v", err)
	}
	req.Header.Set("Accept", "application/yaml, application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, retry.ClassifyNetError("拉取目录失败", err)
	}
	defer resp.Body.Close()

	if retry.TransientStatus(resp.StatusCode) {
		return nil, pkgErrors.Transient(fmt.Sprintf("目录服务返回状态码 %d", resp.StatusCode), nil)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, pkgErrors.Validation("目录服务返回状态码 %d", resp.StatusCode)
	}

	maxBytes := s.cfg.MaxBytes
	if maxBytes <= 0 {
		maxBytes = defaultImportMaxBytes
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBytes+1))
	if err != nil {
		return nil, retry.ClassifyNetError("读取目录内容失败", err)
	}
	if int64(len(body)) > maxBytes {
		return nil, pkgErrors.Validation("目录内容超过 %d 字节", maxBytes)
	}
	return body, nil
}

// Import YAML 是 JSON 的超集，两种格式共用同一解析器
func (s *importService) Import(ctx context.Context, data []byte) (*dto.ImportResult, error) {
	var catalog dto.Catalog
	if err := yaml.Unmarshal(data, &catalog); err != nil {
		return nil, pkgErrors.Validation("目录格式错误: %v", err)
	}
	if len(catalog.Games) == 0 {
		return nil, pkgErrors.Validation("目录中没有游戏")
	}

	games := make([]*model.GameBase, len(catalog.Games))
	for i, entry := range catalog.Games {
		game, err := catalogGame(entry)
		if err != nil {
			return nil, pkgErrors.Validation("第 %d 个游戏: %s", i+1, pkgErrors.MessageOf(err))
		}
		games[i] = game
	}

	result := &dto.ImportResult{}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repos := s.repos.WithTx(tx)

		categoryIDs, created, err := ensureCategories(ctx, repos, lo.FlatMap(catalog.Games, func(g dto.CatalogGame, _ int) []string {
			return g.Categories
		}))
		if err != nil {
			return err
		}
		result.CategoriesCreated = created

		seen := map[string]struct{}{}
		for i, game := range games {
			if _, dup := seen[game.Slug]; dup {
				result.Skipped++
				result.SkippedSlugs = append(result.SkippedSlugs, game.Slug)
				continue
			}
			seen[game.Slug] = struct{}{}

			existing, err := repos.Game.FindBySlug(ctx, game.Slug)
			if err != nil && !pkgErrors.IsCode(err, pkgErrors.CodeNotFound) {
				return err
			}
			if existing != nil {
				result.Skipped++
				result.SkippedSlugs = append(result.SkippedSlugs, game.Slug)
				continue
			}

			if err := repos.Game.Create(ctx, game); err != nil {
				return err
			}
			names := lo.Uniq(lo.Compact(lo.Map(catalog.Games[i].Categories, func(n string, _ int) string { return strings.TrimSpace(n) })))
			links := lo.Map(names, func(n string, _ int) string { return categoryIDs[n] })
			if err := repos.Game.AddCategories(ctx, game.ID, links); err != nil {
				return err
			}
			result.Created++
		}
		return nil
	})
	if err != nil {
		return nil, pkgErrors.AsStorage("导入游戏目录失败", err)
	}

	logger.Info("游戏目录导入完成",
		zap.Int("created", result.Created),
		zap.Int("skipped", result.Skipped),
		zap.Int("categories_created", result.CategoriesCreated))
	return result, nil
}

// ensureCategories 按名称查找分类，不存在的自动创建；返回 名称->ID
func ensureCategories(ctx context.Context, repos *repository.Repositories, rawNames []string) (map[string]string, int, error) {
	names := lo.Uniq(lo.Compact(lo.Map(rawNames, func(n string, _ int) string { return strings.TrimSpace(n) })))
	existing, err := repos.Category.FindByNames(ctx, names)
	if err != nil {
		return nil, 0, err
	}
	ids := lo.SliceToMap(existing, func(c *model.Category) (string, string) { return c.Name, c.ID })

	created := 0
	for _, name := range names {
		if _, ok := ids[name]; ok {
			continue
		}
		category := &model.Category{Name: name}
		if err := repos.Category.Create(ctx, category); err != nil {
			return nil, 0, err
		}
		ids[name] = category.ID
		created++
	}
	return ids, created, nil
}

func catalogGame(entry dto.CatalogGame) (*model.GameBase, error) {
	game := &model.GameBase{
		Title:     strings.TrimSpace(entry.Title),
		ImageURL:  strings.TrimSpace(entry.ImageURL),
		IframeURL: strings.TrimSpace(entry.IframeURL),
		Rating:    entry.Rating,
	}
	if err := validateGame(game); err != nil {
		return nil, err
	}

	game.Slug = slug.Make(game.Title)
	if game.Slug == "" {
		return nil, pkgErrors.Validation("标题 %q 无法生成 slug", game.Title)
	}

	if len(entry.Metadata) > 0 {
		raw, err := json.Marshal(entry.Metadata)
		if err != nil {
			return nil, pkgErrors.Validation("metadata 无法序列化: %v", err)
		}
		game.Metadata = datatypes.JSON(raw)
	}
	return game, nil
}
