package storage

import (
	"fmt"
	"os"
	"path"
	"time"

	"github.com/sman1la/tatib-bot/pkg/timefmt"
)

// EvidenceVault stores photo evidence under date-named folders and hands
// back publicly resolvable links served by the HTTP gateway.
type EvidenceVault struct {
	files   *LocalStorage
	signer  *LinkSigner
	baseURL string
}

// NewEvidenceVault wires the vault from its storage, signer and public base URL.
func NewEvidenceVault(files *LocalStorage, signer *LinkSigner, baseURL string) *EvidenceVault {
	return &EvidenceVault{files: files, signer: signer, baseURL: baseURL}
}

// Store uploads the photo at localPath and returns its public link.
// The folder is named after the reference date, the file after the
// student's class, id and timestamp.
func (v *EvidenceVault) Store(localPath, classLabel, nis string, now time.Time) (string, error) {
	data, err := os.ReadFile(localPath)
	if err != nil {
		return "", fmt.Errorf("read photo: %w", err)
	}
	relPath := path.Join(timefmt.FolderName(now), timefmt.EvidenceFileName(classLabel, nis, now))
	if _, err := v.files.Save(relPath, data); err != nil {
		return "", err
	}
	token, err := v.signer.Sign(relPath)
	if err != nil {
		return "", fmt.Errorf("sign evidence link: %w", err)
	}
	return fmt.Sprintf("%s/evidence/%s", v.baseURL, token), nil
}

// Open resolves a link token back to the stored file.
func (v *EvidenceVault) Open(token string) (*os.File, error) {
	relPath, err := v.signer.Verify(token)
	if err != nil {
		return nil, err
	}
	return v.files.Open(relPath)
}
