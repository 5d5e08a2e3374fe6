package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"strings"

	"vibesync/core/secure"
	"vibesync/logger"
)

// corsMiddleware 跨域中间件
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS, HEAD")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		w.Header().Set("Access-Control-Max-Age", "86400") // 24 hours

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// bufferedWriter 缓冲响应，等加密中间件处理完再真正写出
type bufferedWriter struct {
	header http.Header
	body   bytes.Buffer
	status int
}

func newBufferedWriter() *bufferedWriter {
	return &bufferedWriter{
		header: make(http.Header),
		status: http.StatusOK,
	}
}

func (b *bufferedWriter) Header() http.Header {
	return b.header
}

func (b *bufferedWriter) Write(p []byte) (int, error) {
	return b.body.Write(p)
}

func (b *bufferedWriter) WriteHeader(status int) {
	b.status = status
}

// encryptionMiddleware 对 200 的JSON响应整体加密后再下发。
// 加密失败时原样返回，不让一次加密故障打断正常请求。
func encryptionMiddleware(cipher *secure.Cipher) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if cipher == nil {
				next.ServeHTTP(w, r)
				return
			}

			buf := newBufferedWriter()
			next.ServeHTTP(buf, r)

			contentType := buf.header.Get("Content-Type")
			if buf.status == http.StatusOK && strings.HasPrefix(contentType, "application/json") {
				if env, err := cipher.EncryptJSON(buf.body.Bytes()); err == nil {
					encrypted, merr := json.Marshal(env)
					if merr == nil {
						copyHeaders(w.Header(), buf.header)
						w.WriteHeader(buf.status)
						w.Write(encrypted)
						return
					}
					logger.Error("序列化加密响应失败", logger.ErrorField(merr))
				} else {
					logger.Error("响应加密失败", logger.ErrorField(err))
				}
			}

			copyHeaders(w.Header(), buf.header)
			w.WriteHeader(buf.status)
			w.Write(buf.body.Bytes())
		})
	}
}

func copyHeaders(dst, src http.Header) {
	for key, values := range src {
		// Content-Length 由底层重新计算
		if strings.EqualFold(key, "Content-Length") {
			continue
		}
		for _, v := range values {
			dst.Add(key, v)
		}
	}
}
