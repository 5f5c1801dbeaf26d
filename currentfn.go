package loglatch

import (
	"runtime"
	"strings"
)

const (
	unknownFunction   = "unknown"
	loglatchModulePath = "pkt.systems/loglatch"
)

// CurrentFn returns the name of the calling function without its package
// path. If the caller cannot be determined it returns "unknown". NewSite
// uses this (by way of functionNameFromCaller) to capture a site's context
// automatically; callers that want a custom context string should build a
// Site directly instead.
func CurrentFn() string {
	return functionNameFromCaller(2)
}

func functionNameFromCaller(skip int) string {
	pc, _, _, ok := runtime.Caller(skip)
	if !ok {
		return unknownFunction
	}
	return functionNameForPC(pc)
}

func functionNameForPC(pc uintptr) string {
	if pc == 0 {
		return unknownFunction
	}
	fn := runtime.FuncForPC(pc)
	if fn == nil {
		return unknownFunction
	}
	return trimFunctionName(fn.Name())
}

func trimFunctionName(name string) string {
	if name == "" {
		return unknownFunction
	}
	if i := strings.LastIndex(name, "/"); i >= 0 {
		name = name[i+1:]
	}
	if i := strings.LastIndex(name, "."); i >= 0 {
		name = name[i+1:]
	}
	if name == "" {
		return unknownFunction
	}
	return name
}

// callerFunctionName walks the stack and returns the first frame that is
// not within this module. It mirrors CurrentFn's formatting.
func callerFunctionName() string {
	pcs := make([]uintptr, 16)
	n := runtime.Callers(2, pcs)
	if n == 0 {
		return unknownFunction
	}
	frames := runtime.CallersFrames(pcs[:n])
	for {
		frame, more := frames.Next()
		if frame.Function == "" {
			if !more {
				break
			}
			continue
		}
		if strings.HasPrefix(frame.Function, loglatchModulePath+".") || strings.HasPrefix(frame.Function, loglatchModulePath+"/") {
			if !more {
				break
			}
			continue
		}
		return trimFunctionName(frame.Function)
	}
	return unknownFunction
}
