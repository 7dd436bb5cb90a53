package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	cli "github.com/spf13/cobra"

	"github.com/NguyenHuynhPhuVinh/GachaMCP/pkg/auto/window"
	"github.com/NguyenHuynhPhuVinh/GachaMCP/pkg/permissions"
)

var (
	windowsCmd = &cli.Command{
		Use:   "windows [title]",
		Short: "列出窗口，可按标题筛选",
		Args:  cli.MaximumNArgs(1),
		RunE:  Windows,
	}

	openSettings   bool
	permissionsCmd = &cli.Command{
		Use:   "permissions",
		Short: "检查屏幕录制和辅助功能权限",
		Args:  cli.NoArgs,
		Run:   Permissions,
	}

	versionCmd = &cli.Command{
		Use:   "version",
		Short: "显示版本信息",
		Args:  cli.NoArgs,
		Run: func(cmd *cli.Command, args []string) {
			fmt.Printf("GachaMCP v%s\n", Version)
			fmt.Printf("Build Time: %s\n", BuildTime)
			fmt.Printf("Git Commit: %s\n", GitCommit)
		},
	}
)

func init() {
	permissionsCmd.Flags().BoolVar(&openSettings, "open", false, "请求授权并打开缺失权限对应的系统设置")
	rootCmd.AddCommand(windowsCmd, permissionsCmd, versionCmd)
}

func Windows(cmd *cli.Command, args []string) error {
	windows, err := window.NewRobotgoManager().List()
	if err != nil {
		return fmt.Errorf("获取窗口列表失败: %w", err)
	}
	if len(args) == 1 {
		windows = window.MatchTitle(windows, args[0])
	}

	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "PID\tTITLE\tOWNER\tBOUNDS")
	for _, w := range windows {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", w.PID, w.Title, w.OwnerName, w.Bounds)
	}
	tw.Flush()
	fmt.Printf("共 %d 个窗口\n", len(windows))
	return nil
}

func Permissions(cmd *cli.Command, args []string) {
	status := permissions.Check()
	fmt.Printf("屏幕录制: %v\n", status.ScreenRecording)
	fmt.Printf("辅助功能: %v\n", status.Accessibility)
	if status.AllGranted {
		fmt.Println("所有权限已授权")
		return
	}
	fmt.Println(permissions.Instructions(status))
	if openSettings {
		if status = permissions.Request(status); !status.AllGranted {
			permissions.OpenSettings(status)
		}
	}
}
