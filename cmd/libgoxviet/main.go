// libgoxviet builds the engine as a C shared library:
//
//	go build -buildmode=c-shared -o libgoxviet.so ./cmd/libgoxviet
//
// The struct layouts in goxviet.h mirror pkg/api. Every function returns a
// status code and writes results through the pointers it is given. Strings
// returned in results are allocated with malloc and released with
// goxviet_free_string.
package main

/*
#include <stdlib.h>
#include "goxviet.h"
*/
import "C"

import (
	"sync"
	"unsafe"

	"goxviet/pkg/api"
)

// cAllocator hands out malloc'd strings so C callers may keep them past the
// call.
type cAllocator struct {
	mu   sync.Mutex
	live map[uintptr]struct{}
}

func (a *cAllocator) Alloc(s string) uintptr {
	if s == "" {
		return 0
	}
	p := C.CString(s)
	a.mu.Lock()
	defer a.mu.Unlock()
	a.live[uintptr(unsafe.Pointer(p))] = struct{}{}
	return uintptr(unsafe.Pointer(p))
}

func (a *cAllocator) Free(p uintptr) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	if _, ok := a.live[p]; !ok {
		return false
	}
	delete(a.live, p)
	C.free(unsafe.Pointer(p))
	return true
}

func (a *cAllocator) String(p uintptr) (string, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if _, ok := a.live[p]; !ok {
		return "", false
	}
	return C.GoString((*C.char)(unsafe.Pointer(p))), true
}

func init() {
	api.SetAllocator(&cAllocator{live: make(map[uintptr]struct{})})
}

func status(s api.Status) C.int32_t { return C.int32_t(s) }

func goString(p *C.char) (string, bool) {
	if p == nil {
		return "", false
	}
	return C.GoString(p), true
}

//export goxviet_create_engine
func goxviet_create_engine(cfg *C.goxviet_config, out *C.goxviet_handle) C.int32_t {
	if out == nil {
		return status(api.ErrorNullPointer)
	}
	var h api.Handle
	s := api.CreateEngine((*api.Config)(unsafe.Pointer(cfg)), &h)
	*out = C.goxviet_handle(h)
	return status(s)
}

//export goxviet_destroy_engine
func goxviet_destroy_engine(h C.goxviet_handle) C.int32_t {
	return status(api.DestroyEngine(api.Handle(h)))
}

//export goxviet_process_key
func goxviet_process_key(h C.goxviet_handle, ev *C.goxviet_key_event, out *C.goxviet_process_result) C.int32_t {
	return status(api.ProcessKey(api.Handle(h),
		(*api.KeyEvent)(unsafe.Pointer(ev)),
		(*api.ProcessResult)(unsafe.Pointer(out))))
}

//export goxviet_restore
func goxviet_restore(h C.goxviet_handle, out *C.goxviet_process_result) C.int32_t {
	return status(api.Restore(api.Handle(h), (*api.ProcessResult)(unsafe.Pointer(out))))
}

//export goxviet_get_config
func goxviet_get_config(h C.goxviet_handle, out *C.goxviet_config) C.int32_t {
	return status(api.GetConfig(api.Handle(h), (*api.Config)(unsafe.Pointer(out))))
}

//export goxviet_set_config
func goxviet_set_config(h C.goxviet_handle, cfg *C.goxviet_config) C.int32_t {
	return status(api.SetConfig(api.Handle(h), (*api.Config)(unsafe.Pointer(cfg))))
}

//export goxviet_add_shortcut
func goxviet_add_shortcut(h C.goxviet_handle, trigger, expansion *C.char) C.int32_t {
	t, ok1 := goString(trigger)
	e, ok2 := goString(expansion)
	if !ok1 || !ok2 {
		return status(api.ErrorNullPointer)
	}
	return status(api.AddShortcut(api.Handle(h), t, e))
}

//export goxviet_remove_shortcut
func goxviet_remove_shortcut(h C.goxviet_handle, trigger *C.char) C.int32_t {
	t, ok := goString(trigger)
	if !ok {
		return status(api.ErrorNullPointer)
	}
	return status(api.RemoveShortcut(api.Handle(h), t))
}

//export goxviet_clear_shortcuts
func goxviet_clear_shortcuts(h C.goxviet_handle) C.int32_t {
	return status(api.ClearShortcuts(api.Handle(h)))
}

//export goxviet_count_shortcuts
func goxviet_count_shortcuts(h C.goxviet_handle, out *C.uint32_t) C.int32_t {
	return status(api.CountShortcuts(api.Handle(h), (*uint32)(unsafe.Pointer(out))))
}

//export goxviet_set_shortcuts_enabled
func goxviet_set_shortcuts_enabled(h C.goxviet_handle, enabled C.uint8_t) C.int32_t {
	return status(api.SetShortcutsEnabled(api.Handle(h), enabled != 0))
}

//export goxviet_import_shortcuts
func goxviet_import_shortcuts(h C.goxviet_handle, data *C.char, out *C.uint32_t) C.int32_t {
	d, ok := goString(data)
	if !ok {
		return status(api.ErrorNullPointer)
	}
	return status(api.ImportShortcuts(api.Handle(h), d, (*uint32)(unsafe.Pointer(out))))
}

//export goxviet_export_shortcuts
func goxviet_export_shortcuts(h C.goxviet_handle, out **C.char) C.int32_t {
	if out == nil {
		return status(api.ErrorNullPointer)
	}
	var p uintptr
	s := api.ExportShortcuts(api.Handle(h), &p)
	*out = (*C.char)(unsafe.Pointer(p))
	return status(s)
}

//export goxviet_restore_word
func goxviet_restore_word(h C.goxviet_handle, text *C.char) C.int32_t {
	t, ok := goString(text)
	if !ok {
		return status(api.ErrorNullPointer)
	}
	return status(api.RestoreWord(api.Handle(h), t))
}

//export goxviet_reset_buffer
func goxviet_reset_buffer(h C.goxviet_handle) C.int32_t {
	return status(api.ResetBuffer(api.Handle(h)))
}

//export goxviet_reset_all
func goxviet_reset_all(h C.goxviet_handle) C.int32_t {
	return status(api.ResetAll(api.Handle(h)))
}

//export goxviet_get_version
func goxviet_get_version(out *C.goxviet_version) C.int32_t {
	return status(api.GetVersion((*api.VersionInfo)(unsafe.Pointer(out))))
}

//export goxviet_free_string
func goxviet_free_string(p *C.char) C.int32_t {
	return status(api.FreeString(uintptr(unsafe.Pointer(p))))
}

func main() {}
