package secure

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// 响应加密：AES-256-CBC + PKCS7，密文和IV分别base64编码。
// 信封格式与移动端约定一致，不能随意改字段。

// ErrInvalidKey key 长度必须是32字节（AES-256）
var ErrInvalidKey = errors.New("encryption key must be exactly 32 bytes for AES-256")

// Envelope 加密响应信封
type Envelope struct {
	Encrypted bool   `json:"encrypted"`
	Algorithm string `json:"algorithm"`
	Data      string `json:"data"`
	IV        string `json:"iv"`
	Encoding  string `json:"encoding"`
}

// Cipher 持有加密密钥
type Cipher struct {
	key []byte
}

// NewCipher 创建加密器，key必须是32字节
func NewCipher(key string) (*Cipher, error) {
	if len(key) != 32 {
		return nil, ErrInvalidKey
	}
	return &Cipher{key: []byte(key)}, nil
}

// EncryptJSON 把JSON字节加密为信封
func (c *Cipher) EncryptJSON(plaintext []byte) (*Envelope, error) {
	block, err := aes.NewCipher(c.key)
	if err != nil {
		return nil, fmt.Errorf("创建加密器失败: %w", err)
	}

	iv := make([]byte, aes.BlockSize)
	if _, err := io.ReadFull(rand.Reader, iv); err != nil {
		return nil, fmt.Errorf("生成IV失败: %w", err)
	}

	padded := pkcs7Pad(plaintext, aes.BlockSize)
	encrypted := make([]byte, len(padded))
	cipher.NewCBCEncrypter(block, iv).CryptBlocks(encrypted, padded)

	return &Envelope{
		Encrypted: true,
		Algorithm: "AES-256-CBC",
		Data:      base64.StdEncoding.EncodeToString(encrypted),
		IV:        base64.StdEncoding.EncodeToString(iv),
		Encoding:  "base64",
	}, nil
}

// DecryptJSON 解开信封并反序列化到 out
func (c *Cipher) DecryptJSON(env *Envelope, out interface{}) error {
	encrypted, err := base64.StdEncoding.DecodeString(env.Data)
	if err != nil {
		return fmt.Errorf("解码密文失败: %w", err)
	}
	iv, err := base64.StdEncoding.DecodeString(env.IV)
	if err != nil {
		return fmt.Errorf("解码IV失败: %w", err)
	}
	if len(iv) != aes.BlockSize || len(encrypted) == 0 || len(encrypted)%aes.BlockSize != 0 {
		return errors.New("密文格式不合法")
	}

	block, err := aes.NewCipher(c.key)
	if err != nil {
		return fmt.Errorf("创建解密器失败: %w", err)
	}

	padded := make([]byte, len(encrypted))
	cipher.NewCBCDecrypter(block, iv).CryptBlocks(padded, encrypted)

	plaintext, err := pkcs7Unpad(padded, aes.BlockSize)
	if err != nil {
		return err
	}
	return json.Unmarshal(plaintext, out)
}

func pkcs7Pad(data []byte, blockSize int) []byte {
	padding := blockSize - len(data)%blockSize
	return append(data, bytes.Repeat([]byte{byte(padding)}, padding)...)
}

func pkcs7Unpad(data []byte, blockSize int) ([]byte, error) {
	if len(data) == 0 || len(data)%blockSize != 0 {
		return nil, errors.New("填充数据长度不合法")
	}
	padding := int(data[len(data)-1])
	if padding == 0 || padding > blockSize {
		return nil, errors.New("填充字节不合法")
	}
	for _, b := range data[len(data)-padding:] {
		if int(b) != padding {
			return nil, errors.New("填充字节不合法")
		}
	}
	return data[:len(data)-padding], nil
}
