package audio

import "io"

// repeatReader 把流重复读取 1+remaining 次；remaining < 0 时无限重复
type repeatReader struct {
	src       io.ReadSeeker
	remaining int
	readAny   bool // 本轮是否读到过数据，空流不会无限回绕
}

func newRepeatReader(src io.ReadSeeker, remaining int) *repeatReader {
	return &repeatReader{src: src, remaining: remaining}
}

func (r *repeatReader) Read(p []byte) (int, error) {
	for {
		n, err := r.src.Read(p)
		if n > 0 {
			r.readAny = true
			if err == io.EOF {
				err = nil
			}
			return n, err
		}
		if err != io.EOF {
			return n, err
		}
		if r.remaining == 0 || !r.readAny {
			return 0, io.EOF
		}
		if r.remaining > 0 {
			r.remaining--
		}
		if _, err := r.src.Seek(0, io.SeekStart); err != nil {
			return 0, err
		}
		r.readAny = false
	}
}
