package actions

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/doeshing/phoenix-go/internal/domain"
)

func registerFiles(b *batch, d Deps) {
	b.exact("open file explorer", "open_file_explorer", CategoryFiles, "File manager", launch(d, "file explorer", "File Explorer opened"))
	b.exact("create a new folder", "create_folder", CategoryFiles, "New timestamped folder in Documents", func(ctx context.Context, _ string) (domain.ActionResult, error) {
		return createFolder(ctx, d, "New Folder "+d.Now().Format("2006-01-02 15-04-05"))
	})
	b.prefix("create folder ", "create_named_folder", CategoryFiles, "New folder in Documents with the given name", func(ctx context.Context, name string) (domain.ActionResult, error) {
		return createFolder(ctx, d, name)
	})
	b.exact("open the recycle bin", "open_recycle_bin", CategoryFiles, "Recycle bin", launch(d, "recycle bin", "Recycle Bin opened"))
	b.exact("recycle bin", "open_recycle_bin_short", CategoryFiles, "Recycle bin", launch(d, "recycle bin", "Recycle Bin opened"))
	b.exact("empty the recycle bin", "empty_recycle_bin", CategoryFiles, "Empty the recycle bin", launch(d, "empty recycle bin", "Recycle Bin emptied"))
	b.exact("take a screenshot", "screenshot", CategoryFiles, "Screenshot into Pictures/Screenshots", func(ctx context.Context, _ string) (domain.ActionResult, error) {
		dir := d.screenshotsDir()
		if err := d.Runtime.MakeDir(ctx, dir); err != nil {
			return domain.ActionResult{}, fmt.Errorf("screenshot dir: %w", err)
		}
		path := filepath.Join(dir, "screenshot_"+d.Now().Format("20060102_150405")+".png")
		if err := d.Runtime.Screenshot(ctx, path); err != nil {
			return domain.ActionResult{}, fmt.Errorf("screenshot: %w", err)
		}
		return domain.Success("Screenshot saved to "+path, map[string]interface{}{"path": path}), nil
	})
}

func createFolder(ctx context.Context, d Deps, name string) (domain.ActionResult, error) {
	name = strings.TrimSpace(name)
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return domain.ActionResult{}, fmt.Errorf("%w: folder name %q", domain.ErrInvalidArgument, name)
	}
	path := filepath.Join(d.documentsDir(), name)
	if err := d.Runtime.MakeDir(ctx, path); err != nil {
		return domain.ActionResult{}, fmt.Errorf("create folder: %w", err)
	}
	if err := d.Runtime.Launch(ctx, path); err != nil {
		return domain.ActionResult{}, fmt.Errorf("open folder: %w", err)
	}
	return domain.Success("Created new folder: "+name, map[string]interface{}{"path": path}), nil
}
