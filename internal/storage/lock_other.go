//go:build !unix

package storage

import "os"

// fileLock only keeps the lock file open on platforms without flock(2);
// exclusion is then limited to the in-process store mutex.
type fileLock struct {
	f *os.File
}

func openFileLock(path string) (*fileLock, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, 0600)
	if err != nil {
		return nil, err
	}
	return &fileLock{f: f}, nil
}

func (l *fileLock) Lock() error   { return nil }
func (l *fileLock) Unlock() error { return nil }
func (l *fileLock) Close() error  { return l.f.Close() }
