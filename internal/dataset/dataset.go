package dataset

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"contextlab/internal/core/domain"
)

// BuiltinName is the dataset shipped with the lab: the bilingual review
// sentences every experiment variant was originally measured on.
const BuiltinName = "builtin"

var builtinSentences = []string{
	"這支耳機音質不錯，但藍牙常常斷線。",
	"The keyboard feels great, but the battery dies too fast.",
	"相機畫質很棒，可是夜拍對焦很慢。",
	"我最近買了這款無線耳機，整體來說音質表現相當出色，低音渾厚、高音清晰。不過使用了兩個禮拜後發現，藍牙連線經常會突然斷掉，尤其是在人多的地方更明顯，需要重新配對才能使用，這點真的很困擾。",
	"The mechanical keyboard I purchased has excellent build quality with a satisfying tactile feedback that makes typing a pleasure. However, I'm quite disappointed with the battery life - it only lasts about 3-4 days with the RGB lighting on, which is far shorter than the advertised 2 weeks. I find myself charging it constantly.",
	"這台相機的畫質真的沒話說，日拍的照片色彩鮮豔、細節豐富，完全達到專業水準。但是一到晚上或光線不足的環境，對焦速度就變得超級慢，常常要對好幾次才能成功，拍夜景或室內照片時很不方便，希望未來韌體更新能改善這個問題。",
	"這款智慧手錶的螢幕顯示效果很棒，在陽光下也能清楚看見，而且運動追蹤功能很準確。可是續航力真的讓人失望，官方說可以用5天，但實際上開啟所有功能後，大概2天就要充電了。另外充電速度也很慢，要充滿電需要將近3小時，對於經常外出的人來說很不方便。",
}

// Source resolves dataset names. Anything other than the builtin name is
// treated as a path to a line-per-sentence text file.
type Source struct{}

func NewSource() *Source {
	return &Source{}
}

func (s *Source) Sentences(name string) ([]string, error) {
	if name == "" || name == BuiltinName {
		out := make([]string, len(builtinSentences))
		copy(out, builtinSentences)
		return out, nil
	}
	return loadFile(name)
}

func loadFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dataset %s: %w", path, err)
	}
	defer f.Close()

	var sentences []string
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		sentences = append(sentences, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read dataset %s: %w", path, err)
	}
	if len(sentences) == 0 {
		return nil, domain.WrapError(domain.ErrInvalidInput, "load dataset", errors.New("no sentences found"))
	}
	return sentences, nil
}
