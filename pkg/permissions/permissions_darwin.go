//go:build darwin

package permissions

/*
#cgo CFLAGS: -x objective-c
#cgo LDFLAGS: -framework Cocoa -framework ApplicationServices -framework CoreGraphics
#import <Cocoa/Cocoa.h>
#import <ApplicationServices/ApplicationServices.h>
#import <CoreGraphics/CoreGraphics.h>
#include <stdlib.h>

static int axTrusted(int prompt) {
    NSDictionary *opts = @{(__bridge NSString *)kAXTrustedCheckOptionPrompt: prompt ? @YES : @NO};
    return AXIsProcessTrustedWithOptions((__bridge CFDictionaryRef)opts) ? 1 : 0;
}

// 10.15 之前没有屏幕录制授权
static int screenCaptureAllowed(int prompt) {
    if (@available(macOS 11.0, *)) {
        if (CGPreflightScreenCaptureAccess()) {
            return 1;
        }
        return prompt && CGRequestScreenCaptureAccess() ? 1 : 0;
    }
    if (@available(macOS 10.15, *)) {
        // 10.15 上没有授权时其他应用的窗口名不可读
        CFArrayRef list = CGWindowListCopyWindowInfo(kCGWindowListOptionOnScreenOnly, kCGNullWindowID);
        if (list == NULL) {
            return 0;
        }
        int named = CFArrayGetCount(list) == 0;
        for (CFIndex i = 0; i < CFArrayGetCount(list) && !named; i++) {
            CFDictionaryRef w = (CFDictionaryRef)CFArrayGetValueAtIndex(list, i);
            CFStringRef name = (CFStringRef)CFDictionaryGetValue(w, kCGWindowName);
            named = name != NULL && CFStringGetLength(name) > 0;
        }
        CFRelease(list);
        return named;
    }
    return 1;
}

static void openPrivacyPane(const char *anchor) {
    NSString *url = [NSString stringWithFormat:@"x-apple.systempreferences:com.apple.preference.security?%s", anchor];
    [[NSWorkspace sharedWorkspace] openURL:[NSURL URLWithString:url]];
}
*/
import "C"

import "unsafe"

// Check 读取当前授权状态，不弹出系统提示
func Check() *Status {
	return newStatus(C.axTrusted(0) == 1, C.screenCaptureAllowed(0) == 1)
}

// Request 对缺失的权限弹出系统授权提示，返回提示后的状态
func Request(status *Status) *Status {
	ax, screen := status.Accessibility, status.ScreenRecording
	if !ax {
		ax = C.axTrusted(1) == 1
	}
	if !screen {
		screen = C.screenCaptureAllowed(1) == 1
	}
	return newStatus(ax, screen)
}

// OpenSettings 打开缺失权限对应的隐私设置页
func OpenSettings(status *Status) {
	if !status.Accessibility {
		openPane("Privacy_Accessibility")
	}
	if !status.ScreenRecording {
		openPane("Privacy_ScreenCapture")
	}
}

func openPane(anchor string) {
	cs := C.CString(anchor)
	defer C.free(unsafe.Pointer(cs))
	C.openPrivacyPane(cs)
}
