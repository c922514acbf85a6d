package scoring

import (
	"database/sql"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"

	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/ipc"
	_ "github.com/mattn/go-sqlite3"

	"github.com/tsinghua-fib-lab/busnet-eval/writer"
)

// 评分查询的表名
const (
	TableBusPax   = "bus_pax_records"
	TableBusDelay = "bus_delay_records"
	TableBusTrip  = "bus_trip_records"
	TableTrip     = "trip_records"
)

// columnKind 回读时的列类型，决定CSV字段如何转换
type columnKind int

const (
	kindText columnKind = iota
	kindReal
	kindInt
	kindBool
	kindList // veh_list，统一以JSON文本入库
)

type column struct {
	name string
	kind columnKind
}

// tableDefs 各表的列定义，与写入侧的列布局一致
var tableDefs = map[string][]column{
	TableBusPax: {
		{"person_id", kindText},
		{"bus_id", kindText},
	},
	TableBusDelay: {
		{"stop_id", kindText},
		{"arrival_delay", kindReal},
		{"depart_delay", kindReal},
	},
	TableBusTrip: {
		{"bus_id", kindText},
		{"link_id", kindText},
		{"link_length", kindReal},
		{"travel_time", kindReal},
		{"have_passenger", kindBool},
	},
	TableTrip: {
		{"person_id", kindText},
		{"start_time", kindReal},
		{"travel_time", kindReal},
		{"main_mode", kindText},
		{"veh_list", kindList},
	},
}

// Store 评分数据底座
// 功能：把落盘的记录文件装载进内存SQL引擎，向指标计算提供标量查询
// 说明：仅作评分期间的只读分析用，进程退出即销毁
type Store struct {
	db *sql.DB
}

// NewStore 创建内存SQL底座
func NewStore() (*Store, error) {
	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		return nil, fmt.Errorf("open scoring db err: %w", err)
	}
	return &Store{db: db}, nil
}

// Close 释放SQL引擎
func (s *Store) Close() error {
	return s.db.Close()
}

func (c column) sqlType() string {
	switch c.kind {
	case kindReal:
		return "REAL"
	case kindInt, kindBool:
		return "INTEGER"
	default:
		return "TEXT"
	}
}

// Load 把一个记录文件装载为表
// 参数：table-目标表名（TableXxx常量），path-写入侧的基础路径（不含扩展名），
// format-记录文件格式
// 算法说明：建表后整文件读入，单事务批量插入；Arrow按流式批读取，
// CSV按表头校核列序后逐行转换
func (s *Store) Load(table string, path string, format writer.Format) error {
	def, ok := tableDefs[table]
	if !ok {
		return fmt.Errorf("unknown scoring table %s", table)
	}

	ddl := "CREATE TABLE " + table + " ("
	insert := "INSERT INTO " + table + " VALUES ("
	for i, c := range def {
		if i > 0 {
			ddl += ", "
			insert += ", "
		}
		ddl += c.name + " " + c.sqlType()
		insert += "?"
	}
	ddl += ")"
	insert += ")"
	if _, err := s.db.Exec(ddl); err != nil {
		return fmt.Errorf("create table %s err: %w", table, err)
	}

	file := format.ResolveExtension(path)
	f, err := os.Open(file)
	if err != nil {
		return fmt.Errorf("open %s err: %w", file, err)
	}
	defer f.Close()

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	stmt, err := tx.Prepare(insert)
	if err != nil {
		tx.Rollback()
		return err
	}

	switch format {
	case writer.FormatArrow:
		err = loadArrow(f, def, stmt)
	case writer.FormatCSV:
		err = loadCSV(f, def, stmt)
	default:
		err = fmt.Errorf("unknown format %s", format)
	}
	stmt.Close()
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("load %s into %s err: %w", file, table, err)
	}
	return tx.Commit()
}

// nullIfNonFinite SQL引擎不保NaN/Inf语义，入库前统一替换为NULL
func nullIfNonFinite(v float64) any {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return v
}

func loadArrow(f *os.File, def []column, stmt *sql.Stmt) error {
	r, err := ipc.NewReader(f)
	if err != nil {
		return err
	}
	defer r.Release()

	args := make([]any, len(def))
	for r.Next() {
		rec := r.Record()
		if int(rec.NumCols()) != len(def) {
			return fmt.Errorf("column count mismatch: got %d want %d", rec.NumCols(), len(def))
		}
		for i := 0; i < int(rec.NumRows()); i++ {
			for j, c := range def {
				col := rec.Column(j)
				switch c.kind {
				case kindText:
					args[j] = col.(*array.String).Value(i)
				case kindReal:
					args[j] = nullIfNonFinite(col.(*array.Float64).Value(i))
				case kindInt:
					args[j] = int64(col.(*array.Int32).Value(i))
				case kindBool:
					args[j] = col.(*array.Boolean).Value(i)
				case kindList:
					la := col.(*array.List)
					start, end := la.ValueOffsets(i)
					vs := la.ListValues().(*array.String)
					items := make([]string, 0, end-start)
					for k := start; k < end; k++ {
						items = append(items, vs.Value(int(k)))
					}
					raw, err := json.Marshal(items)
					if err != nil {
						return err
					}
					args[j] = string(raw)
				}
			}
			if _, err := stmt.Exec(args...); err != nil {
				return err
			}
		}
	}
	return r.Err()
}

func loadCSV(f *os.File, def []column, stmt *sql.Stmt) error {
	r := csv.NewReader(f)
	header, err := r.Read()
	if err == io.EOF {
		return fmt.Errorf("missing header row")
	}
	if err != nil {
		return err
	}
	if len(header) != len(def) {
		return fmt.Errorf("column count mismatch: got %d want %d", len(header), len(def))
	}
	for i, c := range def {
		if header[i] != c.name {
			return fmt.Errorf("column %d is %s, want %s", i, header[i], c.name)
		}
	}

	args := make([]any, len(def))
	for {
		row, err := r.Read()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		for j, c := range def {
			switch c.kind {
			case kindText, kindList:
				args[j] = row[j]
			case kindReal:
				v, err := strconv.ParseFloat(row[j], 64)
				if err != nil {
					return fmt.Errorf("bad %s value %q: %w", c.name, row[j], err)
				}
				args[j] = nullIfNonFinite(v)
			case kindInt:
				v, err := strconv.ParseInt(row[j], 10, 64)
				if err != nil {
					return fmt.Errorf("bad %s value %q: %w", c.name, row[j], err)
				}
				args[j] = v
			case kindBool:
				v, err := strconv.ParseBool(row[j])
				if err != nil {
					return fmt.Errorf("bad %s value %q: %w", c.name, row[j], err)
				}
				args[j] = v
			}
		}
		if _, err := stmt.Exec(args...); err != nil {
			return err
		}
	}
}

// Scalar 执行标量聚合查询
// 说明：SQL的NULL结果（空表上的聚合等）按0.0处理，与指标的
// 空数据语义一致
func (s *Store) Scalar(query string, queryArgs ...any) (float64, error) {
	var v sql.NullFloat64
	if err := s.db.QueryRow(query, queryArgs...).Scan(&v); err != nil {
		return 0, err
	}
	if !v.Valid {
		return 0, nil
	}
	return v.Float64, nil
}

// Count 返回表的行数
func (s *Store) Count(table string) (int64, error) {
	var n int64
	if err := s.db.QueryRow("SELECT COUNT(*) FROM " + table).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

// TripVehLists 返回指定主模式出行的乘用车辆序列
// 参数：mode-主模式（如"pt"）
func (s *Store) TripVehLists(mode string) ([][]string, error) {
	rows, err := s.db.Query(
		"SELECT veh_list FROM "+TableTrip+" WHERE main_mode = ?", mode)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var lists [][]string
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, err
		}
		var vehList []string
		if err := json.Unmarshal([]byte(raw), &vehList); err != nil {
			return nil, fmt.Errorf("bad veh_list %q: %w", raw, err)
		}
		lists = append(lists, vehList)
	}
	return lists, rows.Err()
}
