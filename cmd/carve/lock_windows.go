//go:build windows

package main

import (
	"errors"
	"syscall"

	"github.com/dixieflatline76/Carve/config"
	"github.com/dixieflatline76/Carve/util/log"
	"golang.org/x/sys/windows"
)

var (
	mutex windows.Handle
)

// acquireLock tries to acquire the single-server lock for name (mutex on Windows).
func acquireLock(name string) (bool, error) {
	namePtr, err := syscall.UTF16PtrFromString(config.AppName + "_" + name + "_SingleServerMutex")
	if err != nil {
		return false, err
	}

	mutex, err = windows.CreateMutex(nil, false, namePtr)
	if err != nil {
		if errors.Is(err, windows.ERROR_ALREADY_EXISTS) {
			windows.CloseHandle(mutex)
			mutex = 0
			return false, nil // Another server holds the lock
		}
		return false, err
	}
	return true, nil
}

// releaseLock releases the single-server lock.
func releaseLock() {
	if mutex == 0 {
		return
	}
	if err := windows.ReleaseMutex(mutex); err != nil {
		log.Printf("Failed to release mutex %v", err)
	}
	if err := windows.CloseHandle(mutex); err != nil {
		log.Printf("Failed to close mutex handle: %v", err)
	}
	mutex = 0
}
