// cmd/check_assets/main.go
// 资源检查工具：校验 doggo.yaml，并确认它引用的精灵表和声音都能加载
//
// 用法：
//
//	go run ./cmd/check_assets --root=.
package main

import (
	"crypto/md5"
	"flag"
	"fmt"
	"os"
	"path"
	"path/filepath"

	"github.com/decker502/screendoggo/internal/audio"
	"github.com/decker502/screendoggo/pkg/app"
	"github.com/decker502/screendoggo/pkg/config"
	"github.com/decker502/screendoggo/pkg/embedded"
	"github.com/decker502/screendoggo/pkg/game"
)

var rootFlag = flag.String("root", ".", "包含 assets/ 的目录")

func main() {
	flag.Parse()
	embedded.Init(os.DirFS(*rootFlag))

	cfg, err := config.LoadDoggoConfig(config.DefaultConfigPath)
	if err != nil {
		fmt.Printf("❌ 配置无效: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("✅ 配置有效: %d 个动画, %d 张精灵表, %d 个歌单, %d 个事件\n",
		len(cfg.Animations), len(cfg.Sprite.Sheets), len(cfg.Sounds.Playlists), len(cfg.Events))

	failures := 0
	resources := game.NewResourceManager(os.DirFS(*rootFlag), nil, nil)
	preset, _ := cfg.Size(cfg.DefaultSize)
	referenced := make(map[string]bool)
	for _, sheet := range cfg.SheetNames() {
		p, _ := cfg.SheetPath(sheet)
		referenced[path.Clean(p)] = true
		if !embedded.Exists(p) {
			fmt.Printf("❌ %s: %s 不存在\n", sheet, p)
			failures++
			continue
		}
		report(p)
		if _, err := resources.LoadRegistry(cfg, sheet, preset); err != nil {
			fmt.Printf("❌ %s: %v\n", sheet, err)
			failures++
		}
	}

	// 目录中存在但配置没有引用的精灵表
	if sheets, err := embedded.Glob(path.Join(path.Dir(firstSheet(cfg)), "*.png")); err == nil {
		for _, p := range sheets {
			if !referenced[p] {
				fmt.Printf("⚠️  %s 未被配置引用\n", p)
			}
		}
	}

	if cfg.Sounds.Bark != "" {
		failures += checkClip(cfg.Sounds.Bark)
	}
	for _, name := range cfg.PlaylistNames() {
		dir, _ := cfg.PlaylistDir(name)
		failures += checkDir(name, dir)
	}
	if cfg.Sounds.EventDir != "" {
		failures += checkDir("Event", cfg.Sounds.EventDir)
	}

	if failures > 0 {
		fmt.Printf("❌ %d 个问题\n", failures)
		os.Exit(1)
	}
	fmt.Println("✅ 所有资源可用")
}

func firstSheet(cfg *config.DoggoConfig) string {
	p, _ := cfg.SheetPath(cfg.Sprite.DefaultSheet)
	return p
}

// report 输出文件大小和 MD5
func report(p string) {
	info, err := embedded.Stat(p)
	if err != nil {
		fmt.Printf("   %s: %v\n", p, err)
		return
	}
	data, err := embedded.ReadFile(p)
	if err != nil {
		fmt.Printf("   %s: %v\n", p, err)
		return
	}
	fmt.Printf("   %s: %d bytes, md5 %x\n", p, info.Size(), md5.Sum(data))
}

func checkClip(p string) int {
	report(p)
	data, err := embedded.ReadFile(p)
	if err == nil {
		_, err = audio.Decode(p, data, app.SampleRate)
	}
	if err != nil {
		fmt.Printf("❌ %s: %v\n", p, err)
		return 1
	}
	return 0
}

func checkDir(name, dir string) int {
	entries, err := embedded.ReadDir(dir)
	if err != nil {
		fmt.Printf("❌ %s: %v\n", dir, err)
		return 1
	}
	failures, clips := 0, 0
	for _, entry := range entries {
		if entry.IsDir() || !audio.IsSupported(entry.Name()) {
			continue
		}
		clips++
		failures += checkClip(path.Join(dir, entry.Name()))
	}
	if clips == 0 {
		fmt.Printf("⚠️  %s (%s) 没有可播放的曲目\n", name, filepath.ToSlash(dir))
	}
	return failures
}
