//go:build darwin

package window

/*
#cgo CFLAGS: -x objective-c
#cgo LDFLAGS: -framework CoreGraphics -framework Cocoa -framework AppKit
#import <CoreGraphics/CoreGraphics.h>
#import <Cocoa/Cocoa.h>
#import <AppKit/AppKit.h>

typedef struct {
    int pid;
    int x;
    int y;
    int width;
    int height;
    char title[512];
    char owner[256];
} gachaWindow;

static int readInt(CFDictionaryRef dict, CFStringRef key) {
    CFNumberRef ref = (CFNumberRef)CFDictionaryGetValue(dict, key);
    int v = 0;
    if (ref) {
        CFNumberGetValue(ref, kCFNumberIntType, &v);
    }
    return v;
}

static void readString(CFDictionaryRef dict, CFStringRef key, char *buf, int size) {
    CFStringRef ref = (CFStringRef)CFDictionaryGetValue(dict, key);
    if (ref) {
        CFStringGetCString(ref, buf, size, kCFStringEncodingUTF8);
    }
}

// 屏幕上可见的普通窗口 (layer 0)，按前后顺序
static int listWindows(gachaWindow *out, int max) {
    CFArrayRef list = CGWindowListCopyWindowInfo(
        kCGWindowListOptionOnScreenOnly | kCGWindowListExcludeDesktopElements,
        kCGNullWindowID
    );
    if (list == NULL) {
        return -1;
    }

    int n = 0;
    CFIndex count = CFArrayGetCount(list);
    for (CFIndex i = 0; i < count && n < max; i++) {
        CFDictionaryRef w = (CFDictionaryRef)CFArrayGetValueAtIndex(list, i);
        if (readInt(w, kCGWindowLayer) != 0) {
            continue;
        }
        int pid = readInt(w, kCGWindowOwnerPID);
        if (pid == 0) {
            continue;
        }

        CGRect bounds = CGRectZero;
        CFDictionaryRef boundsRef = (CFDictionaryRef)CFDictionaryGetValue(w, kCGWindowBounds);
        if (boundsRef) {
            CGRectMakeWithDictionaryRepresentation(boundsRef, &bounds);
        }
        if (bounds.size.width < 50 || bounds.size.height < 50) {
            continue;
        }

        gachaWindow *dst = &out[n];
        memset(dst, 0, sizeof(gachaWindow));
        readString(w, kCGWindowOwnerName, dst->owner, sizeof(dst->owner));
        readString(w, kCGWindowName, dst->title, sizeof(dst->title));
        // 没有屏幕录制权限时 kCGWindowName 为空
        if (strlen(dst->title) == 0) {
            strncpy(dst->title, dst->owner, sizeof(dst->title) - 1);
        }
        if (strlen(dst->title) == 0) {
            continue;
        }

        dst->pid = pid;
        dst->x = (int)bounds.origin.x;
        dst->y = (int)bounds.origin.y;
        dst->width = (int)bounds.size.width;
        dst->height = (int)bounds.size.height;
        n++;
    }

    CFRelease(list);
    return n;
}

static int activatePID(int pid) {
    NSRunningApplication *app = [NSRunningApplication runningApplicationWithProcessIdentifier:pid];
    if (app == nil) {
        return 0;
    }
    return [app activateWithOptions:NSApplicationActivateAllWindows] ? 1 : 0;
}
*/
import "C"

import (
	"fmt"

	"github.com/NguyenHuynhPhuVinh/GachaMCP/pkg/auto"
)

const maxNativeWindows = 256

// nativeWindows 通过 CGWindowList 枚举窗口，坐标为屏幕点坐标
func nativeWindows() ([]WindowInfo, bool) {
	buf := make([]C.gachaWindow, maxNativeWindows)
	n := int(C.listWindows(&buf[0], C.int(maxNativeWindows)))
	if n < 0 {
		return nil, false
	}

	out := make([]WindowInfo, 0, n)
	for i := 0; i < n; i++ {
		w := buf[i]
		out = append(out, WindowInfo{
			PID:       int(w.pid),
			Title:     C.GoString(&w.title[0]),
			OwnerName: C.GoString(&w.owner[0]),
			Bounds: auto.Region{
				X:      int(w.x),
				Y:      int(w.y),
				Width:  int(w.width),
				Height: int(w.height),
			},
		})
	}
	return out, true
}

// activateNative 通过 NSRunningApplication 激活进程
func activateNative(pid int) error {
	if C.activatePID(C.int(pid)) == 0 {
		return fmt.Errorf("无法激活 PID %d 的应用", pid)
	}
	return nil
}
