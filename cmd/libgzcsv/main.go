// Command libgzcsv builds the gzcsv C shared library:
//
//	go build -buildmode=c-shared -o libgzcsv.so ./cmd/libgzcsv
//
// The generated libgzcsv.h declares:
//
//	char *parse_gzipped_csv(char *file_path, char *columns_json, size_t chunk_size);
//	char *parse_gzipped_csv_ex(char *file_path, char *columns_json, size_t chunk_size,
//	                           int *error_code, char **error_message);
//	void free_string(char *ptr);
//	char *gzcsv_error_name(int code); /* static string, never freed */
//
// Every non-NULL string returned by the parse functions, including an error
// message, must be released with free_string exactly once.
package main

/*
#include <stdlib.h>
#include <stddef.h>
*/
import "C"

import (
	"unsafe"

	nerrors "github.com/ajitpratap0/gzcsv/pkg/errors"
	"github.com/ajitpratap0/gzcsv/pkg/ffi"
)

var errorNames = map[int]*C.char{}

func init() {
	codes := []int{
		nerrors.CodeOK, nerrors.CodeEncoding, nerrors.CodeColumnList, nerrors.CodeFile,
		nerrors.CodeDecompression, nerrors.CodeData, nerrors.CodeNonFinite,
		nerrors.CodeAllocation, nerrors.CodeConfig, nerrors.CodeInternal,
	}
	// allocated once and never freed; the host receives borrowed pointers
	for _, code := range codes {
		errorNames[code] = C.CString(nerrors.CodeName(code))
	}
	errorNames[-1] = C.CString(nerrors.CodeName(-1))
}

func parse(filePath, columnsJSON *C.char, chunkSize C.size_t) ffi.ParseResult {
	if filePath == nil {
		err := ffi.NullArgument("file_path")
		return ffi.ParseResult{Code: nerrors.Code(err), Message: ffi.ErrorMessage(err)}
	}
	if columnsJSON == nil {
		err := ffi.NullArgument("columns_json")
		return ffi.ParseResult{Code: nerrors.Code(err), Message: ffi.ErrorMessage(err)}
	}

	return ffi.ParseEx(C.GoString(filePath), C.GoString(columnsJSON), ffi.ClampChunkSize(uint64(chunkSize)))
}

//export parse_gzipped_csv
func parse_gzipped_csv(filePath, columnsJSON *C.char, chunkSize C.size_t) *C.char {
	res := parse(filePath, columnsJSON, chunkSize)
	if res.Output == nil {
		return nil
	}
	return (*C.char)(res.Output.Detach())
}

//export parse_gzipped_csv_ex
func parse_gzipped_csv_ex(filePath, columnsJSON *C.char, chunkSize C.size_t, errorCode *C.int, errorMessage **C.char) *C.char {
	res := parse(filePath, columnsJSON, chunkSize)

	if errorCode != nil {
		*errorCode = C.int(res.Code)
	}
	if errorMessage != nil {
		*errorMessage = nil
		if res.Code != nerrors.CodeOK {
			if msg, err := ffi.NewHandleString(res.Message); err == nil {
				*errorMessage = (*C.char)(msg.Detach())
			}
		}
	}

	if res.Output == nil {
		return nil
	}
	return (*C.char)(res.Output.Detach())
}

//export free_string
func free_string(ptr *C.char) {
	ffi.ReleaseRaw(unsafe.Pointer(ptr))
}

//export gzcsv_error_name
func gzcsv_error_name(code C.int) *C.char {
	if name, ok := errorNames[int(code)]; ok {
		return name
	}
	return errorNames[-1]
}

func main() {}
